// Package cmd defines and implements the CLI commands for the schemascan
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/config"
	"github.com/schemascan/schemascan/internal/logging"
)

var cfgFile string

// app bundles the services every subcommand needs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// loadApp loads configuration and builds the logger. Subcommands call it at
// the top of their RunE so flag parsing has already happened.
func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) close() {
	// Sync flushes buffered log entries; stderr sync errors are expected on
	// some platforms and safe to ignore.
	_ = a.logger.Sync()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemascan",
		Short: "Discover and cross-link structured data across a site",
		Long: `schemascan crawls a site breadth-first, extracts JSON-LD, Microdata, RDFa,
OpenGraph, and Twitter Card annotations from every page, and organizes the
findings into deduplicated snippets connected by identifier references.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the SCHEMASCAN_ prefix")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute is the entry point used by main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
