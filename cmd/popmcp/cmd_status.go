package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"popmcp/internal/display"
	"popmcp/internal/format"
	"popmcp/internal/launch"
	"popmcp/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List recorded launches and whether they are still running",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open launch store: %w", err)
	}
	defer st.Close()

	launches, err := st.ListLaunches()
	if err != nil {
		return err
	}
	if len(launches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No launches recorded.")
		return nil
	}

	tbl := format.NewTable(format.ASCII)
	tbl.Header("ID", "Kind", "Live", "PIDs", "Endpoints", "Started", "Base Dir")
	tbl.Columns(
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, MaxWidth: 48},
	)
	for _, l := range launches {
		tbl.Row(
			shortID(l.ID),
			display.Kind(string(l.Kind)),
			liveness(l),
			format.FmtPIDs(l.PIDs),
			endpointCell(l.Endpoints),
			startedCell(l.StartedAt),
			format.Truncate(l.BaseDir, 40),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}

// liveness renders whether any recorded pid is still running. Torn-down
// records say so instead of showing a stale mark.
func liveness(l *store.Launch) string {
	if !l.Active() {
		return "torn down"
	}
	for _, pid := range l.PIDs {
		if launch.ProcessAlive(pid) {
			return format.BoolMark(true)
		}
	}
	return format.BoolMark(false)
}

func endpointCell(eps []launch.Endpoint) string {
	if len(eps) == 0 {
		return "-"
	}
	parts := make([]string, len(eps))
	for i, ep := range eps {
		parts[i] = fmt.Sprintf("%s %s", display.Role(string(ep.Role)), ep.URI())
	}
	return strings.Join(parts, "\n")
}

func startedCell(started string) string {
	t, err := time.Parse(time.RFC3339, started)
	if err != nil || started == "" {
		return started
	}
	return fmt.Sprintf("%s (%s ago)", t.Local().Format("15:04:05"), format.FmtDuration(time.Since(t)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
