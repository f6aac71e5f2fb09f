package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"popmcp/internal/display"
	"popmcp/internal/format"
	"popmcp/internal/launch"
	"popmcp/internal/logging"
	"popmcp/internal/pop"
	"popmcp/internal/store"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Launch pop-managed processes in the background",
}

var upNodeFlags struct {
	rpcPort    int
	ethRPCPort int
}

var upNodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Launch a local ink! dev node and print its RPC URL",
	RunE:  runUpNode,
}

var upNetworkFlags struct {
	verbose bool
}

var upNetworkCmd = &cobra.Command{
	Use:   "network <config-file>",
	Short: "Launch a zombienet network from a network config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpNetwork,
}

func init() {
	f := upNodeCmd.Flags()
	f.IntVar(&upNodeFlags.rpcPort, "rpc-port", 0, "Substrate RPC port (0 uses pop's default)")
	f.IntVar(&upNodeFlags.ethRPCPort, "eth-rpc-port", 0, "Ethereum RPC port (0 uses pop's default)")
	upCmd.AddCommand(upNodeCmd)

	upNetworkCmd.Flags().BoolVar(&upNetworkFlags.verbose, "verbose", false, "Pass --verbose through to pop")
	upCmd.AddCommand(upNetworkCmd)
}

func runUpNode(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	req := launch.NodeRequest{
		RPCPort:    upNodeFlags.rpcPort,
		EthRPCPort: upNodeFlags.ethRPCPort,
		Timeout:    cfg.NodeTimeout(),
	}
	if req.RPCPort == 0 {
		req.RPCPort = cfg.Ports.Node
	}
	if req.EthRPCPort == 0 {
		req.EthRPCPort = cfg.Ports.EthRPC
	}
	l := launch.NewLauncher(pop.Resolve(cfg.PopBin))
	out, err := l.Node(cmd.Context(), req)
	if err != nil {
		return err
	}
	if !out.Ready() {
		return fmt.Errorf("%s: %s", display.State(string(out.State)), out.Reason())
	}

	ep, _ := out.Endpoint(launch.RoleChain)
	if st, err := openStore(cfg); err == nil {
		persistLaunch(st, launch.KindNode, out)
		_ = st.PutSession(store.SessionNodeWS, ep.URI())
		st.Close()
	} else {
		logging.New("up").Warn("node not recorded, status and clean will not find it", "err", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, ep.URI())
	if len(out.PIDs) > 0 {
		fmt.Fprintf(w, "pids: %s\n", format.FmtPIDs(out.PIDs))
	}
	return nil
}

func runUpNetwork(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	l := launch.NewLauncher(pop.Resolve(cfg.PopBin))
	out, err := l.Network(cmd.Context(), launch.NetworkRequest{
		ConfigPath:      args[0],
		Verbose:         upNetworkFlags.verbose,
		Timeout:         cfg.NetworkTimeout(),
		EndpointTimeout: cfg.EndpointTimeout(),
	})
	if err != nil {
		return err
	}
	if !out.Ready() {
		return fmt.Errorf("%s: %s", display.State(string(out.State)), out.Reason())
	}

	if st, err := openStore(cfg); err == nil {
		persistLaunch(st, launch.KindNetwork, out)
		st.Close()
	} else {
		logging.New("up").Warn("network not recorded, status and clean will not find it", "err", err)
	}

	w := cmd.OutOrStdout()
	if out.BaseDir != "" {
		fmt.Fprintf(w, "base_dir: %s\n", out.BaseDir)
	}
	if out.DescriptorPath != "" {
		fmt.Fprintf(w, "zombie_json: %s\n", out.DescriptorPath)
	}
	for _, ep := range out.Endpoints {
		fmt.Fprintf(w, "%s_ws: %s\n", ep.Role, ep.URI())
	}
	if len(out.PIDs) > 0 {
		fmt.Fprintf(w, "pop_pid: %d\n", out.PIDs[0])
	}
	return nil
}

// persistLaunch records a ready launch so status and clean can find it after
// this process exits.
func persistLaunch(st store.Store, kind launch.Kind, out *launch.Outcome) {
	rec := &store.Launch{
		ID:             uuid.NewString(),
		Kind:           kind,
		PIDs:           out.PIDs,
		Endpoints:      out.Endpoints,
		BaseDir:        out.BaseDir,
		DescriptorPath: out.DescriptorPath,
		StartedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := st.SaveLaunch(rec); err != nil {
		logging.New("up").Warn("launch not recorded", "kind", kind, "err", err)
	}
}
