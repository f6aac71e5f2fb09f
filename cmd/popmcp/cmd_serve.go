package main

import (
	"context"

	"github.com/spf13/cobra"

	"popmcp/internal/logging"
	"popmcp/internal/mcp"
	"popmcp/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout. Agent clients connect through
their mcp.json and call the pop tools directly.

The server monitors for parent process death. When the client disconnects
or restarts, the server self-terminates rather than leaving launched nodes
behind with nobody able to clean them up.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		logging.New("serve").Warn("launch store unavailable, records will not survive restarts",
			"path", cfg.DBPath, "err", err)
		st = store.NewMemStore()
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcp.WatchParent(ctx, cancel)

	logging.New("serve").Info("starting popmcp MCP server over stdio (parent watchdog active)",
		"version", version)
	return mcp.NewServer(cfg, st, version).Run(ctx)
}
