package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"popmcp/internal/launch"
	"popmcp/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type upInkNodeInput struct {
	RPCPort    int `json:"rpc_port,omitempty" jsonschema:"RPC port for the node (default: 9944)"`
	EthRPCPort int `json:"eth_rpc_port,omitempty" jsonschema:"Ethereum RPC adapter port (default: 8545)"`
}

func (s *Server) handleUpInkNode(ctx context.Context, _ *sdkmcp.CallToolRequest, in upInkNodeInput) (*sdkmcp.CallToolResult, any, error) {
	req := launch.NodeRequest{
		RPCPort:    in.RPCPort,
		EthRPCPort: in.EthRPCPort,
		Timeout:    s.cfg.NodeTimeout(),
	}
	// Unset ports fall back to the configured defaults.
	if req.RPCPort == 0 {
		req.RPCPort = s.cfg.Ports.Node
	}
	if req.EthRPCPort == 0 {
		req.EthRPCPort = s.cfg.Ports.EthRPC
	}
	out, err := s.launcher.Node(ctx, req)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	if !out.Ready() {
		return errorResult(out.Reason()), nil, nil
	}
	ep, _ := out.Endpoint(launch.RoleChain)
	url := ep.URI()
	s.session.SetNodeURL(url)
	s.recordLaunch(launch.KindNode, out)
	return textResult(url), nil, nil
}

type upNetworkInput struct {
	Path    string `json:"path" jsonschema:"Path to the Zombienet network config file"`
	Verbose bool   `json:"verbose,omitempty" jsonschema:"Whether the output should be verbose (default: false)"`
}

func (s *Server) handleUpNetwork(ctx context.Context, _ *sdkmcp.CallToolRequest, in upNetworkInput) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, nil, invalidInput("Path cannot be empty")
	}
	out, err := s.launcher.Network(ctx, launch.NetworkRequest{
		ConfigPath:      in.Path,
		Verbose:         in.Verbose,
		Timeout:         s.cfg.NetworkTimeout(),
		EndpointTimeout: s.cfg.EndpointTimeout(),
	})
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	if !out.Ready() {
		return errorResult(out.Reason()), nil, nil
	}
	s.recordLaunch(launch.KindNetwork, out)

	// A Ready network outcome always carries a relay and a chain endpoint.
	relay, _ := out.Endpoint(launch.RoleRelay)
	chain, _ := out.Endpoint(launch.RoleChain)
	content := []sdkmcp.Content{&sdkmcp.TextContent{Text: out.Output}}
	if out.BaseDir != "" {
		content = append(content, &sdkmcp.TextContent{Text: fmt.Sprintf("base_dir: %s", out.BaseDir)})
	}
	content = append(content,
		&sdkmcp.TextContent{Text: fmt.Sprintf("zombie_json: %s", out.DescriptorPath)},
		&sdkmcp.TextContent{Text: fmt.Sprintf("relay_ws: %s", relay.URI())},
		&sdkmcp.TextContent{Text: fmt.Sprintf("chain_ws: %s", chain.URI())},
	)
	if len(out.PIDs) > 0 {
		content = append(content, &sdkmcp.TextContent{Text: fmt.Sprintf("pop_pid: %d", out.PIDs[0])})
	}
	return &sdkmcp.CallToolResult{Content: content}, nil, nil
}

type cleanNodesInput struct {
	PIDs []int `json:"pids,omitempty" jsonschema:"Process IDs of nodes to stop. Omit to stop every cached node."`
}

func (s *Server) handleCleanNodes(ctx context.Context, _ *sdkmcp.CallToolRequest, in cleanNodesInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := s.teardown.CleanNodes(ctx, in.PIDs...)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to clean nodes: %s", err)), nil, nil
	}
	ids, pids, eps := s.matchLaunches(launch.KindNode, func(recPIDs []int, _ string) bool {
		return pidsIntersect(recPIDs, in.PIDs)
	})
	if err := s.teardown.KillAll(pids...); err != nil {
		s.log.Warn("kill after clean", "err", err)
	}
	// Success is only reported once the ports are actually released;
	// otherwise the next launch fails somewhere far less obvious.
	if err := s.teardown.WaitPortsFree(ctx, eps...); err != nil {
		return errorResult(fmt.Sprintf("Failed to clean nodes: %s", err)), nil, nil
	}
	s.forgetLaunches(ids)
	s.session.ClearNodeURL()
	return textResult("Nodes cleaned!\n\n" + out), nil, nil
}

type cleanNetworkInput struct {
	Path      string `json:"path,omitempty" jsonschema:"Network base directory to remove, as reported by up_network"`
	All       bool   `json:"all,omitempty" jsonschema:"Remove every known network"`
	KeepState bool   `json:"keep_state,omitempty" jsonschema:"Keep chain state databases for a later relaunch"`
}

func (s *Server) handleCleanNetwork(ctx context.Context, _ *sdkmcp.CallToolRequest, in cleanNetworkInput) (*sdkmcp.CallToolResult, any, error) {
	if !in.All && strings.TrimSpace(in.Path) == "" {
		return nil, nil, invalidInput("'path' is required when all is not set")
	}
	out, err := s.teardown.CleanNetwork(ctx, in.Path, in.All, in.KeepState)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to clean network: %s", err)), nil, nil
	}
	ids, pids, eps := s.matchLaunches(launch.KindNetwork, func(_ []int, baseDir string) bool {
		return in.All || samePath(baseDir, in.Path)
	})
	if err := s.teardown.KillAll(pids...); err != nil {
		s.log.Warn("kill after clean", "err", err)
	}
	if err := s.teardown.WaitPortsFree(ctx, eps...); err != nil {
		return errorResult(fmt.Sprintf("Failed to clean network: %s", err)), nil, nil
	}
	s.forgetLaunches(ids)
	return textResult("Network cleaned!\n\n" + out), nil, nil
}

// recordLaunch tracks a ready launch in the in-process registry and the
// store, so the clean tools and a restarted server can find it again.
func (s *Server) recordLaunch(kind launch.Kind, out *launch.Outcome) string {
	rec := &launch.Record{
		Kind:      kind,
		PIDs:      out.PIDs,
		Endpoints: out.Endpoints,
		BaseDir:   out.BaseDir,
	}
	id := s.registry.Add(rec)
	err := s.store.SaveLaunch(&store.Launch{
		ID:             id,
		Kind:           kind,
		PIDs:           out.PIDs,
		Endpoints:      out.Endpoints,
		BaseDir:        out.BaseDir,
		DescriptorPath: out.DescriptorPath,
		StartedAt:      rec.Started.Format(time.RFC3339),
	})
	if err != nil {
		s.log.Warn("could not persist launch", "id", id, "err", err)
	}
	return id
}

// matchLaunches collects active launches of one kind that the match
// function accepts, merging what this process launched with what the
// store remembers from earlier runs.
func (s *Server) matchLaunches(kind launch.Kind, match func(pids []int, baseDir string) bool) (ids []string, pids []int, eps []launch.Endpoint) {
	seen := make(map[string]bool)
	add := func(id string, recPIDs []int, recEPs []launch.Endpoint) {
		if seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
		pids = append(pids, recPIDs...)
		eps = append(eps, recEPs...)
	}
	for _, rec := range s.registry.List() {
		if rec.Kind == kind && match(rec.PIDs, rec.BaseDir) {
			add(rec.ID, rec.PIDs, rec.Endpoints)
		}
	}
	stored, err := s.store.ListLaunches()
	if err != nil {
		s.log.Warn("could not list stored launches", "err", err)
		return ids, pids, eps
	}
	for _, l := range stored {
		if l.Kind == kind && l.Active() && match(l.PIDs, l.BaseDir) {
			add(l.ID, l.PIDs, l.Endpoints)
		}
	}
	return ids, pids, eps
}

// forgetLaunches drops records from the registry and marks them torn down
// in the store. Both sides tolerate ids they never saw.
func (s *Server) forgetLaunches(ids []string) {
	for _, id := range ids {
		s.registry.Remove(id)
		if err := s.store.MarkTornDown(id); err != nil {
			s.log.Warn("could not mark launch torn down", "id", id, "err", err)
		}
	}
}

// pidsIntersect reports whether any pid is in the filter. An empty filter
// matches everything.
func pidsIntersect(pids, filter []int) bool {
	if len(filter) == 0 {
		return true
	}
	for _, p := range pids {
		for _, f := range filter {
			if p == f {
				return true
			}
		}
	}
	return false
}

func samePath(a, b string) bool { return filepath.Clean(a) == filepath.Clean(b) }
