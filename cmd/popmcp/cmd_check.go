package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"popmcp/internal/pop"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the pop binary is installed and runnable",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bin := pop.Resolve(cfg.PopBin)
	out, err := pop.NewExecutor(bin).Run(cmd.Context(), "--version")
	if err != nil {
		return fmt.Errorf("pop is not runnable at %q: %w", bin, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", strings.TrimSpace(out), bin)
	return nil
}
