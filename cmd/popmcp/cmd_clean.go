package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"popmcp/internal/launch"
	"popmcp/internal/logging"
	"popmcp/internal/pop"
	"popmcp/internal/store"
)

var cleanFlags struct {
	all       bool
	pids      []int
	keepState bool
}

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Tear down launched nodes and networks",
	Long: `Tears down what a previous up (or an MCP session) left running.

With --pid, stops those node processes. With a path, removes that network
state directory and stops its processes. With --all, stops every cached
node and removes every network. Success means the ports are released, not
just that the processes were signaled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.BoolVar(&cleanFlags.all, "all", false, "Clean all nodes and networks")
	f.IntSliceVar(&cleanFlags.pids, "pid", nil, "Node process ID to stop (repeatable)")
	f.BoolVar(&cleanFlags.keepState, "keep-state", false, "Keep network base directories on disk")
}

func runClean(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	if !cleanFlags.all && len(cleanFlags.pids) == 0 && path == "" {
		return errors.New("nothing to clean: pass --all, --pid, or a network path")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg); err != nil {
		return err
	}

	coord := launch.NewCoordinator(pop.NewExecutor(pop.Resolve(cfg.PopBin)), cfg.TeardownTimeout())
	w := cmd.OutOrStdout()

	cleanedNodes := false
	if cleanFlags.all || len(cleanFlags.pids) > 0 {
		out, err := coord.CleanNodes(cmd.Context(), cleanFlags.pids...)
		if err != nil {
			return fmt.Errorf("clean nodes: %w", err)
		}
		if msg := strings.TrimSpace(out); msg != "" {
			fmt.Fprintln(w, msg)
		}
		cleanedNodes = true
	}
	if cleanFlags.all || path != "" {
		out, err := coord.CleanNetwork(cmd.Context(), path, cleanFlags.all, cleanFlags.keepState)
		if err != nil {
			return fmt.Errorf("clean network: %w", err)
		}
		if msg := strings.TrimSpace(out); msg != "" {
			fmt.Fprintln(w, msg)
		}
	}

	if st, err := openStore(cfg); err == nil {
		defer st.Close()
		if err := sweepStored(cmd.Context(), st, coord, path); err != nil {
			return err
		}
		if cleanedNodes {
			_ = st.DeleteSession(store.SessionNodeWS)
		}
	}

	fmt.Fprintln(w, "Cleaned.")
	return nil
}

// sweepStored force-kills recorded launches matching the clean scope and
// marks them torn down once their ports have actually closed. A record
// whose ports stay bound is kept so a later clean retries it.
func sweepStored(ctx context.Context, st store.Store, coord *launch.Coordinator, path string) error {
	launches, err := st.ListLaunches()
	if err != nil {
		logging.New("clean").Warn("listing launch records failed", "err", err)
		return nil
	}
	for _, l := range launches {
		if !l.Active() || !cleanMatches(l, path) {
			continue
		}
		if err := coord.KillAll(l.PIDs...); err != nil {
			logging.New("clean").Warn("kill failed", "id", l.ID, "err", err)
		}
		if err := coord.WaitPortsFree(ctx, l.Endpoints...); err != nil {
			return err
		}
		_ = st.MarkTornDown(l.ID)
	}
	return nil
}

func cleanMatches(l *store.Launch, path string) bool {
	if cleanFlags.all {
		return true
	}
	switch l.Kind {
	case launch.KindNode:
		return len(cleanFlags.pids) > 0 && pidsOverlap(l.PIDs, cleanFlags.pids)
	case launch.KindNetwork:
		return path != "" && filepath.Clean(l.BaseDir) == filepath.Clean(path)
	}
	return false
}

func pidsOverlap(pids, filter []int) bool {
	for _, p := range pids {
		for _, f := range filter {
			if p == f {
				return true
			}
		}
	}
	return false
}
