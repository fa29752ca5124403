package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/catalog"
)

// NewCatalogListCmd creates the catalog list command.
func NewCatalogListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries in resolution order",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), cat.Entries())
			}
			return renderCatalog(cmd.OutOrStdout(), cat.Entries())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}

// NewCatalogValidateCmd creates the catalog validate command.
func NewCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file",
		Args:  cobra.ExactArgs(1),
		Example: `  # Validate a catalog before pointing catalog.file at it
  ecolens catalog validate ~/.ecolens/catalog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			entries, err := f.ToEntries()
			if err != nil {
				return err
			}
			if err = catalog.New(entries).Validate(); err != nil {
				return err
			}
			mode := "appended after"
			if f.Replace {
				mode = "replacing"
			}
			cmd.Printf("Catalog %s is valid: %d entries, version %s, %s the built-in entries\n",
				args[0], len(entries), f.Version, mode)
			return nil
		},
	}
}
