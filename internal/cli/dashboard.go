package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/dashboard"
)

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	var (
		output    string
		breakdown string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize the scan history",
		Long: `Shows the number of scans, their total footprint, the savings available by
switching to the suggested alternatives (30% of the total) and the footprint
share per category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			a, err := appFromCmd(cmd)
			if err != nil {
				return err
			}

			if breakdown == "" {
				breakdown = a.cfg.Dashboard.Breakdown
			}
			mode, ok := dashboard.ParseBreakdownMode(breakdown)
			if !ok {
				return fmt.Errorf("unknown breakdown mode %q", breakdown)
			}

			hist, closeStore, err := openHistory(a)
			if err != nil {
				return err
			}
			defer closeStore()

			summary := dashboard.Summarize(hist.LoadAll(), mode)
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			w := cmd.OutOrStdout()
			return renderSummary(w, summary, styler{enabled: isWriterTerminal(w)})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	cmd.Flags().StringVar(&breakdown, "breakdown", "", "category breakdown: history or illustrative")
	return cmd
}
