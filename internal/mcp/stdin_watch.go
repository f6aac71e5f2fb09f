package mcp

import (
	"context"
	"os"
	"time"

	"popmcp/internal/logging"
)

// parentPollInterval paces the orphan check.
const parentPollInterval = 2 * time.Second

// WatchParent shuts the server down when the parent process goes away.
//
// MCP clients are supposed to close our stdin on exit, but a crashed or
// killed client can leak the server instead. The watchdog polls the
// parent pid; a change means the original parent died and init adopted
// us. It must never read stdin itself: the stdio transport owns that
// descriptor, and a stolen byte corrupts the JSON-RPC stream.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	log := logging.New("watchdog")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(parentPollInterval):
				if os.Getppid() != ppid {
					log.Warn("parent process died, shutting down", "was_ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
