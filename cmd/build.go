package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/cassette/internal/app"
	"github.com/agentic-research/cassette/internal/manifest"
)

var buildCmd = &cobra.Command{
	Use:   "build [output.db]",
	Short: "Record the discovered modules in a SQLite manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]

		a, b, err := app.Load(configPath, rootDir, selector, logger)
		if err != nil {
			return err
		}

		start := time.Now()
		found, err := a.Discover(b)
		if err != nil {
			return err
		}

		_ = os.Remove(output) // Overwrite
		writer, err := manifest.NewWriter(output)
		if err != nil {
			return err
		}
		for _, d := range found {
			if err := writer.Add(d.Source, d.Module); err != nil {
				_ = writer.Close()
				return fmt.Errorf("write %s: %w", d.Module.Path(), err)
			}
		}
		if err := writer.Close(); err != nil {
			return err
		}

		logger.Info("manifest written", "output", output, "modules", len(found), "elapsed", time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
