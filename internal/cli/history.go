package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/history"
)

// NewHistoryListCmd creates the history list command.
func NewHistoryListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded scans, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			hist, closeStore, err := openHistory(a)
			if err != nil {
				return err
			}
			defer closeStore()

			records := hist.LoadAll()
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return renderHistory(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}

// NewHistoryClearCmd creates the history clear command.
func NewHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}
			hist, closeStore, err := openHistory(a)
			if err != nil {
				return err
			}
			defer closeStore()

			removed := hist.Len()
			if err = hist.Clear(); err != nil {
				if !errors.Is(err, history.ErrPersist) {
					return err
				}
				cmd.PrintErrf("Warning: %v\n", err)
			}
			cmd.Printf("Cleared %d scan(s).\n", removed)
			return nil
		},
	}
}
