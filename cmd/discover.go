package cmd

import (
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/cassette/internal/app"
)

var discoverJSON bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the modules the configured sources resolve to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b, err := app.Load(configPath, rootDir, selector, logger)
		if err != nil {
			return err
		}
		found, err := a.Discover(b)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if discoverJSON {
			_, err := fmt.Fprintln(out, oj.JSON(toJSON(found), &ojg.Options{Indent: 2, Sort: true}))
			return err
		}
		for _, d := range found {
			for _, asset := range d.Module.Assets() {
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", d.Source, d.Module.Path(), asset.Path()); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// toJSON converts discovery results to generic values for ojg.
func toJSON(found []app.Discovered) []any {
	out := make([]any, 0, len(found))
	for _, d := range found {
		assets := make([]any, 0, len(d.Module.Assets()))
		for _, a := range d.Module.Assets() {
			entry := map[string]any{"path": a.Path()}
			if f := a.File(); f != nil {
				entry["file"] = f.Path()
			}
			assets = append(assets, entry)
		}
		out = append(out, map[string]any{
			"source": d.Source,
			"kind":   string(d.Kind),
			"module": d.Module.Path(),
			"assets": assets,
		})
	}
	return out
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(discoverCmd)
}
