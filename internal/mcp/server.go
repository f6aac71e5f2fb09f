// Package mcp exposes pop orchestration over the Model Context Protocol.
// One stdio server carries the whole tool surface: scaffolding, building,
// and testing contracts and chains, deploying and calling them, launching
// dev nodes and zombienet topologies in the background, and tearing those
// launches down again. Handlers stay thin; internal/pop runs the one-shot
// commands and internal/launch owns everything that keeps running.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"popmcp/internal/config"
	"popmcp/internal/docs"
	"popmcp/internal/launch"
	"popmcp/internal/logging"
	"popmcp/internal/pop"
	"popmcp/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "popmcp"

// serverInstructions goes out with the initialize response.
const serverInstructions = "Pop CLI MCP Server - Tools for Polkadot ink! smart contract and parachain development using Pop CLI"

// launcher starts background node and network processes. The indirection
// exists so tests can fake launches without spawning anything.
type launcher interface {
	Node(ctx context.Context, req launch.NodeRequest) (*launch.Outcome, error)
	Network(ctx context.Context, req launch.NetworkRequest) (*launch.Outcome, error)
}

// Server wires the MCP SDK server to the pop executor, the launch
// machinery, and the launch-record store.
type Server struct {
	MCPServer *sdkmcp.Server

	cfg      *config.Config
	bin      string
	runner   pop.Runner
	runnerAt func(dir string) pop.Runner
	launcher launcher
	teardown *launch.Coordinator
	store    store.Store
	registry *launch.Registry
	docs     *docs.Registry
	session  *session
	log      *slog.Logger
}

// NewServer resolves the pop binary and assembles the full tool surface.
// st may be nil, in which case launch records and session state live only
// for the lifetime of the process.
func NewServer(cfg *config.Config, st store.Store, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if st == nil {
		st = store.NewMemStore()
	}
	bin := pop.Resolve(cfg.PopBin)

	s := &Server{
		cfg:      cfg,
		bin:      bin,
		runner:   pop.NewExecutor(bin),
		runnerAt: func(dir string) pop.Runner { return pop.NewExecutor(bin, pop.WithDir(dir)) },
		launcher: launch.NewLauncher(bin),
		store:    st,
		registry: launch.NewRegistry(),
		docs:     docs.Default(),
		log:      logging.New("mcp"),
	}
	s.teardown = launch.NewCoordinator(s.runner, cfg.TeardownTimeout())
	s.session = newSession(st, s.log)

	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: serverName, Version: version},
		&sdkmcp.ServerOptions{Instructions: serverInstructions},
	)
	s.registerTools()
	s.registerResources()
	return s
}

// Bin returns the resolved pop binary path.
func (s *Server) Bin() string { return s.bin }

// Run serves MCP over stdin/stdout until the context is canceled or the
// client goes away.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving over stdio", "bin", s.bin)
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "check_pop_installation",
		Description: "Check if Pop CLI is installed and get version information",
	}, s.handleCheckInstallation)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "install_pop_instructions",
		Description: "Get detailed instructions for installing Pop CLI on different platforms",
	}, s.handleInstallInstructions)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "pop_help",
		Description: "Get help for any Pop CLI command",
	}, s.handlePopHelp)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_documentation",
		Description: "Search through all Polkadot documentation for specific topics or keywords",
	}, s.handleSearchDocumentation)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_templates",
		Description: "List all available ink! contract templates",
	}, s.handleListTemplates)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "create_contract",
		Description: "Create a new ink! smart contract from a template using Pop CLI",
	}, s.handleCreateContract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "build_contract",
		Description: "Build an ink! smart contract using Pop CLI",
	}, s.handleBuildContract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "test_contract",
		Description: "Run tests for an ink! smart contract",
	}, s.handleTestContract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "deploy_contract",
		Description: "Deploy and instantiate an ink! smart contract to a network",
	}, s.handleDeployContract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "call_contract",
		Description: "Call a contract method on a deployed contract",
	}, s.handleCallContract)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "call_chain",
		Description: "Execute extrinsics, query storage, or explore metadata on a chain",
	}, s.handleCallChain)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "convert_address",
		Description: "Convert between Ethereum and Substrate (Polkadot) addresses",
	}, s.handleConvertAddress)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "create_chain",
		Description: "Create a new parachain project from a provider template using Pop CLI",
	}, s.handleCreateChain)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "build_chain",
		Description: "Build a parachain project using Pop CLI",
	}, s.handleBuildChain)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "test_chain",
		Description: "Run tests for a parachain project",
	}, s.handleTestChain)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "up_ink_node",
		Description: "Launch a local ink! node for contract development and testing (runs in background)",
	}, s.handleUpInkNode)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "up_network",
		Description: "Launch a multi-node network from a Zombienet config file (runs in background)",
	}, s.handleUpNetwork)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "clean_nodes",
		Description: "Stop running local ink! nodes by PID",
	}, s.handleCleanNodes)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "clean_network",
		Description: "Remove launched network state and stop its processes",
	}, s.handleCleanNetwork)
}

// --- Result helpers ---

// Tool outcomes ride in the result text with IsError set, so the caller
// sees pop's own words either way. Handler errors are reserved for input
// validation.

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: true,
	}
}

// invalidInput rejects a call before anything runs.
func invalidInput(msg string) error {
	return fmt.Errorf("Invalid input: %s", msg)
}

// flexString absorbs string arguments that agents occasionally send as
// JSON booleans, e.g. {"args": true} for a single boolean constructor
// argument.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("expected string or boolean, got %s", data)
}
