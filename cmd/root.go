// =============================================================================
// Packaging Reconciler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (pkgrecon)
//   ├── reconcileCmd (pkgrecon reconcile)
//   ├── filesCmd     (pkgrecon files list|clear)
//   ├── historyCmd   (pkgrecon history)
//   └── versionCmd   (pkgrecon version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration for the commands that need it
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/ginjaninja78/pkgrecon/internal/logger"
	"github.com/ginjaninja78/pkgrecon/internal/store"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pkgrecon",
	Short: "Packaging Reconciler - check online-sales packaging against the reduction limits",
	Long: `pkgrecon joins a sales ledger with a packaging template and reports, for
every sales line, the packaging weight, the product weight, their ratio and
whether the ratio stays within the limit for the product's weight bracket.

Key Features:
  - CSV (UTF-8, Big5, GBK), XLSX and legacy XLS inputs with tolerant header matching
  - CSV and XLSX reports with a terminal preview
  - Remembers the last inputs, so either file can be omitted on the next run
  - Run history and a summary log per run

Example Usage:
  pkgrecon reconcile --sales sales.xlsx --template template.xlsx
  pkgrecon reconcile --sales march.csv           # reuse the remembered template
  pkgrecon files list
  pkgrecon history --limit 5`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads the configuration and builds the logger.
func setup() (*config.MainConfig, *logger.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Debug("Loaded configuration", "path", cfgFile, "output_dir", cfg.OutputDir, "store", cfg.StorePath)
	return cfg, log, nil
}

// openStore opens the local store named in the configuration.
func openStore(ctx context.Context, cfg *config.MainConfig) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", cfg.StorePath, err)
	}
	return st, nil
}
