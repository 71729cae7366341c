// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quartzind/lit/internal/config"
	"github.com/quartzind/lit/tui"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lit [path]",
	Short: "lit - interactive terminal client for git",
	Long: `
            ╦  ╦╔╦╗
            ║  ║ ║
            ╩═╝╩ ╩   lit

  Terminal UI for a git repository: status, log, diffs,
  branches, tags and stashes, with staging, commits and
  remote sync. Repository work runs on background workers
  so the interface never blocks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return tui.Run(cfg, path)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lit/config.yaml)")
	rootCmd.Flags().Int("workers", 0, "background worker bound (overrides config file)")
	rootCmd.Flags().Duration("debounce", 0, "filesystem event debounce window (overrides config file)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if workers, _ := rootCmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if debounce, _ := rootCmd.Flags().GetDuration("debounce"); debounce > 0 {
		cfg.Debounce = config.Duration(debounce)
	}
	cfg.Normalize()
}
