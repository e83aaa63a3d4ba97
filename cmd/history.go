// =============================================================================
// Packaging Reconciler - History Command
// =============================================================================
//
// COMMAND USAGE:
//   pkgrecon history [flags]
//
// FLAGS:
//   --limit : Number of runs to list, newest first (0 lists all)
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded runs, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded reconciliation runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No recorded runs.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STARTED\tRUN ID\tSALES\tTEMPLATE\tLINES\tMATCHED\tCOMPLIANT\tNON-COMPLIANT")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.ID, r.SalesFile, r.TemplateFile,
				r.Lines, r.Matched, r.Compliant, r.NonCompliant)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 lists all)")
	rootCmd.AddCommand(historyCmd)
}
