package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath string
	rootDir    string
	selector   string
	verbose    bool

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "cassette",
	})
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "cassette.hcl", "Path to bundle configuration (.hcl or .json)")
	pf.StringVarP(&rootDir, "root", "r", "", "Asset root directory (overrides the configured root)")
	pf.StringVar(&selector, "select", "", "JSONPath selecting source objects in a JSON configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:          "cassette",
	Short:        "Cassette: per-file module discovery for asset bundles",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.InfoLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
