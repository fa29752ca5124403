package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecolens/internal/classifier"
	"github.com/rshade/ecolens/internal/logging"
	"github.com/rshade/ecolens/internal/report"
	"github.com/rshade/ecolens/internal/session"
)

// scanOptions holds the flags of the scan command.
type scanOptions struct {
	label   string
	narrate bool
	output  string
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [image...]",
		Short: "Classify photos and report their carbon footprint",
		Long: `Classifies each image, maps the top label to the impact catalog, prints the
impact report and records the scan in the history (the 10 most recent scans are
kept).

With --label the classifier is skipped and the given label is used instead; an
image is then optional and only kept as the record's picture.`,
		Example: `  # Scan one photo
  ecolens scan mug.jpg

  # Scan several photos at once
  ecolens scan bottle.jpg phone.jpg shirt.jpg

  # Use a known label and print the narration script
  ecolens scan --label "water bottle" --narrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.label, "label", "", "use this label instead of classifying the image")
	cmd.Flags().BoolVar(&opts.narrate, "narrate", false, "print the narration script for the last result")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts scanOptions) error {
	if err := checkOutputFormat(opts.output); err != nil {
		return err
	}
	if opts.label == "" && len(args) == 0 {
		return errors.New("provide at least one image, or --label")
	}
	if opts.label != "" && len(args) > 1 {
		return errors.New("--label accepts at most one image")
	}

	a, err := appFromCmd(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	images := make([]classifier.Image, 0, len(args))
	for _, path := range args {
		img, loadErr := classifier.LoadImage(path)
		if loadErr != nil {
			return loadErr
		}
		images = append(images, img)
	}

	s, closeStore, err := openSession(ctx, a)
	if err != nil {
		return err
	}
	defer closeStore()

	var results []session.Result
	var scanErr error
	switch {
	case opts.label != "":
		imageRef := ""
		if len(images) == 1 {
			imageRef = images[0].DataURL()
		}
		results = append(results, s.ScanLabel(opts.label, imageRef))
	case len(images) == 1:
		res, oneErr := s.Scan(ctx, images[0])
		if oneErr != nil {
			return oneErr
		}
		results = append(results, res)
	default:
		batch, batchErr := s.ScanBatch(ctx, images)
		for _, br := range batch {
			if br.Err != nil {
				cmd.PrintErrf("Error: %s: %v\n", br.Image, br.Err)
				continue
			}
			results = append(results, br.Result)
		}
		scanErr = batchErr
	}

	for _, res := range results {
		if res.Warning != nil {
			cmd.PrintErrf("Warning: %v\n", res.Warning)
		}
	}

	log.Debug().Ctx(ctx).Str("operation", "scan").Int("recorded", len(results)).Msg("scan complete")

	if err = printScanResults(cmd.OutOrStdout(), results, opts.output); err != nil {
		return err
	}
	if opts.narrate {
		if text, ok := s.Narration(); ok {
			cmd.Println()
			cmd.Println(text)
		}
	}
	return scanErr
}

// scanJSONOutput is the JSON shape of the scan command.
type scanJSONOutput struct {
	Reports   []report.DisplayReport `json:"reports"`
	Dashboard any                    `json:"dashboard,omitempty"`
}

func printScanResults(w io.Writer, results []session.Result, output string) error {
	if output == outputJSON {
		out := scanJSONOutput{Reports: make([]report.DisplayReport, 0, len(results))}
		for _, res := range results {
			out.Reports = append(out.Reports, res.Report)
		}
		if len(results) > 0 {
			out.Dashboard = results[len(results)-1].Summary
		}
		return writeJSON(w, out)
	}

	st := styler{enabled: isWriterTerminal(w)}
	for i, res := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderReport(w, res.Report, st); err != nil {
			return err
		}
	}
	if len(results) > 0 {
		last := results[len(results)-1].Summary
		if _, err := fmt.Fprintf(w, "\nScans recorded: %d, total %.1f kg CO₂\n",
			last.TotalScans, last.TotalDisplay()); err != nil {
			return err
		}
	}
	return nil
}
