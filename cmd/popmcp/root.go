package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"popmcp/internal/config"
	"popmcp/internal/logging"
	"popmcp/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	dbPath     string
}

var rootCmd = &cobra.Command{
	Use:   "popmcp",
	Short: "MCP server and launch supervisor for the Pop CLI",
	Long: "popmcp wraps the Pop CLI for agent use: it scaffolds and deploys ink!\ncontracts, launches dev nodes and zombienet networks in the background,\nand tears them down without leaking processes or ports.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	// PRIVATE_KEY and POPMCP_* overrides may live in a .env next to the
	// working directory; absence is fine.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file (YAML or JSON)")
	pf.StringVar(&rootFlags.dbPath, "db", "", "Launch-record DB path (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// loadConfig resolves the runtime config: --config file if given, otherwise
// defaults plus POPMCP_* environment overrides. --db wins over both.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if rootFlags.configPath != "" {
		c, err := config.LoadFromPath(rootFlags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.FromEnv()
	}
	if rootFlags.dbPath != "" {
		cfg.DBPath = rootFlags.dbPath
	}
	return cfg, nil
}

// initLogging installs the slog handler the config asks for. Logs go to
// stderr so stdout stays clean for MCP framing and scriptable output.
func initLogging(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" {
		f, err := logging.OpenLogFile(cfg.Log.File)
		if err != nil {
			return err
		}
		logging.Init(level, cfg.Log.Format, f)
		return nil
	}
	logging.Init(level, cfg.Log.Format)
	return nil
}

// openStore opens the launch-record DB named by the config.
func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return st, nil
}
