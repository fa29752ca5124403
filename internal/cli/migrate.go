package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/kvstore"
	"github.com/rshade/ecolens/internal/migration"
)

// NewHistoryImportCmd creates the history import command.
func NewHistoryImportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import scan history exported from the browser app",
		Long: `Import scan history exported from the browser app into the configured storage.

The file may hold the saved list of scans, that list as a quoted string, or a
local storage dump object containing the history key. Use "-" to read stdin.`,
		Example: `  ecolens history import ecolens-history.json
  ecolens history import --force - < export.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return fmt.Errorf("opening export: %w", openErr)
				}
				defer f.Close()
				in = f
			}

			dst, closeDst, err := openKV(a, a.cfg.Storage.Backend)
			if err != nil {
				return err
			}
			defer closeDst()

			res, err := migration.ImportExport(in, dst, a.cfg.Storage.Key, force)
			if err != nil {
				return err
			}
			printMigration(cmd, res, "Imported")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace existing history")
	return cmd
}

// NewHistoryMigrateCmd creates the history migrate command.
func NewHistoryMigrateCmd() *cobra.Command {
	var (
		from  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy scan history from another storage backend",
		Long: `Copy scan history from another backend in the storage directory into the
configured backend. The source backend is left untouched.`,
		Example: `  # After switching storage.backend to sqlite
  ecolens history migrate --from file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			if strings.EqualFold(from, a.cfg.Storage.Backend) {
				return fmt.Errorf("source backend %q is the configured backend", from)
			}
			if strings.EqualFold(from, kvstore.BackendMemory) {
				return errors.New("the memory backend holds no history to migrate")
			}

			src, closeSrc, err := openKV(a, from)
			if err != nil {
				return err
			}
			defer closeSrc()
			dst, closeDst, err := openKV(a, a.cfg.Storage.Backend)
			if err != nil {
				return err
			}
			defer closeDst()

			res, err := migration.CopyHistory(src, dst, a.cfg.Storage.Key, force)
			if err != nil {
				return err
			}
			printMigration(cmd, res, "Migrated")
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", kvstore.BackendFile, "backend to copy from: file or sqlite")
	cmd.Flags().BoolVar(&force, "force", false, "replace existing history")
	return cmd
}

func printMigration(cmd *cobra.Command, res migration.Result, verb string) {
	cmd.Printf("%s %d scan(s).\n", verb, res.Records)
	if res.Dropped > 0 {
		cmd.PrintErrf("Warning: dropped %d oldest scan(s) beyond the history limit\n", res.Dropped)
	}
}
