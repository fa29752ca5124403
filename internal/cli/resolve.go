package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/catalog"
	"github.com/rshade/ecolens/internal/greenops"
	"github.com/rshade/ecolens/internal/resolver"
)

// NewResolveCmd creates the resolve command. It never touches the history.
func NewResolveCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "resolve <label>",
		Short: "Show which catalog entry a classifier label maps to",
		Args:  cobra.ExactArgs(1),
		Example: `  # Resolve an ImageNet-style label
  ecolens resolve "jersey, T-shirt, tee shirt"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}

			cat, err := catalog.LoadWithReplace(a.cfg.Catalog.File, a.cfg.Catalog.Replace)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			mode, _ := resolver.ParseMatchMode(a.cfg.Matching.Mode)
			r := resolver.New(cat, resolver.WithMatchMode(mode), resolver.WithLogger(a.base))

			res := r.ResolveDetailed(args[0])
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			cmd.Printf("Label:     %s\n", args[0])
			if res.Matched {
				cmd.Printf("Matched:   %q (%s matching)\n", res.Keyword, r.Mode())
			} else {
				cmd.Println("Matched:   no keyword, generic estimate")
			}
			cmd.Printf("Object:    %s\n", res.Entry.Name)
			cmd.Printf("Category:  %s\n", res.Entry.Category)
			cmd.Printf("Footprint: %s (%s)\n",
				greenops.FormatKg(res.Entry.CarbonFootprintKg),
				greenops.ClassifyTier(res.Entry.CarbonFootprintKg).Label())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
