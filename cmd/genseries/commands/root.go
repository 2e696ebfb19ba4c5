package commands

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"futurescli/internal/config"
	"futurescli/internal/infrastructure"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genseries",
	Short: "Build continuous futures series from per-contract daily data",
	Long: `genseries constructs generic futures series (IFc1..c3, Pv1..v3)
from a contract reference file and a daily price file.

Each trading day the listed contracts of a family are ranked, either by
expiry calendar or by market activity, and each generic slot keeps or
rolls its backing contract under the no-roll-back rule. Roll boundaries
are then spliced away by back-adjusting historical prices, so the
exported series has no artificial jumps.

Examples:
  genseries check
  genseries build
  genseries build --from 20210104 --to 20211231 --family IF`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// bootstrap loads .env, the configuration, the logger, and the path
// layout for a data command. It is called from each command's RunE
// rather than a PersistentPreRun so that version works without a
// readable data tree. Flag overrides apply between config load and
// path resolution.
func bootstrap(overrides func(*config.Config)) (*config.Config, *config.Paths, *slog.Logger, error) {
	// A missing .env is fine; it only feeds FUTURES_* variables.
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if overrides != nil {
		overrides(cfg)
	}

	paths, err := config.PathsFor(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, nil, fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	return cfg, paths, logger, nil
}
