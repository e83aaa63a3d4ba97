// =============================================================================
// Packaging Reconciler - Reconcile Command
// =============================================================================
//
// COMMAND USAGE:
//   pkgrecon reconcile [flags]
//
// FLAGS:
//   --sales        : Sales ledger (.csv, .xlsx, .xls). Omit to reuse the remembered one
//   --template     : Packaging template (.csv, .xlsx, .xls). Omit to reuse the remembered one
//   --format       : Report formats, overriding export_formats (csv,xlsx)
//   --preview      : Rows to print, overriding preview_limit (0 disables)
//   --dry-run      : Reconcile and print without writing or recording anything
//   --no-remember  : Do not remember the given files for later runs
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/pkgrecon/internal/pipeline"
	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
	"github.com/ginjaninja78/pkgrecon/internal/report"
	"github.com/ginjaninja78/pkgrecon/internal/validation"
	"github.com/ginjaninja78/pkgrecon/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	salesPath    string
	templatePath string
	formats      []string
	previewRows  int
	dryRun       bool
	noRemember   bool
)

// =============================================================================
// RECONCILE COMMAND DEFINITION
// =============================================================================

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a sales ledger against a packaging template",
	Long: `The reconcile command reads the sales ledger and the packaging template,
computes the packaging ratio of every sales line, and writes the report to the
output directory.

Either input may be omitted; the file used by the previous run is reused.

On success:
  - The reports (CSV and/or XLSX) are placed in the output directory
  - A summary log is written next to them
  - The inputs are remembered and the run is added to the history

Missing columns never stop a run: their values default to empty/0 and the
problem is reported before the preview.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&salesPath, "sales", "", "Sales ledger file (.csv, .xlsx, .xls)")
	reconcileCmd.Flags().StringVar(&templatePath, "template", "", "Packaging template file (.csv, .xlsx, .xls)")
	reconcileCmd.Flags().StringSliceVar(&formats, "format", nil, "Report formats: csv, xlsx (default from config)")
	reconcileCmd.Flags().IntVar(&previewRows, "preview", 0, "Number of result rows to print (default from config)")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile without writing reports or recording the run")
	reconcileCmd.Flags().BoolVar(&noRemember, "no-remember", false, "Do not remember the input files")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runReconcile(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.Flags().Changed("preview") {
		cfg.PreviewLimit = previewRows
	}

	// A dry run leaves no trace: the store is only read, and only when it
	// already exists and an input has to come from it.
	var st pipeline.Store
	if !dryRun || ((salesPath == "" || templatePath == "") && utils.FileExists(cfg.StorePath)) {
		opened, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer opened.Close()
		st = opened
	}

	fmt.Fprintln(out, "=== Packaging Reconciler ===")

	p := pipeline.New(cfg, st, log)
	res, err := p.Run(cmd.Context(), pipeline.Options{
		SalesPath:    salesPath,
		TemplatePath: templatePath,
		Formats:      formats,
		DryRun:       dryRun,
		Remember:     !noRemember,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sales:     %s (%d rows)\n", res.Sales.SourceFile, len(res.Sales.Records))
	fmt.Fprintf(out, "Template:  %s (%d rows, %d products)\n", res.Template.SourceFile, len(res.Template.Records), res.Products)

	if len(res.Issues) > 0 {
		errs := validation.CountErrors(res.Issues)
		fmt.Fprintf(out, "\nHeader issues: %d error(s), %d warning(s)\n", errs, len(res.Issues)-errs)
		fmt.Fprint(out, validation.FormatIssues(res.Issues))
	}

	if cfg.PreviewLimit > 0 && len(res.Lines) > 0 {
		fmt.Fprintln(out)
		if err := report.Preview(out, res.Lines, cfg.PreviewLimit); err != nil {
			return err
		}
	}

	printSummary(out, res.Summary)

	if dryRun {
		fmt.Fprintln(out, "\nDry run: no files written.")
	} else {
		fmt.Fprintln(out, "\nOutput files:")
		for _, f := range res.OutputFiles {
			fmt.Fprintf(out, "  %s\n", f)
		}
		fmt.Fprintf(out, "Summary log: %s\n", res.SummaryFile)
	}

	fmt.Fprintf(out, "Time elapsed:  %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

func printSummary(out io.Writer, s reconcile.Summary) {
	fmt.Fprintln(out, "\n=== Reconciliation Complete ===")
	fmt.Fprintf(out, "Lines:          %d\n", s.Lines)
	fmt.Fprintf(out, "Matched:        %d\n", s.Matched)
	fmt.Fprintf(out, "Unmatched:      %d\n", s.Unmatched)
	fmt.Fprintf(out, "Compliant:      %d\n", s.Compliant)
	fmt.Fprintf(out, "Non-compliant:  %d\n", s.NonCompliant)
	fmt.Fprintf(out, "Packaging (kg): %s\n", reconcile.ToText(s.PackagingWeight))
	fmt.Fprintf(out, "Product (kg):   %s\n", reconcile.ToText(s.ProductWeight))
}
