package main

import (
	"fmt"
	"os"

	"github.com/renderinc/product-publisher/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions holds flags shared by every command
type rootOptions struct {
	ConfigPath string
	DataDir    string
	LogLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "product-publisher",
		Short:        "Product Publisher - price, identify and record product submissions",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.GetConfigPath(), "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory for the store and log files (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newPublishCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig reads the config file and applies explicitly set global flags
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
