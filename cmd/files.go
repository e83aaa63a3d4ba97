// =============================================================================
// Packaging Reconciler - Files Command
// =============================================================================
//
// COMMAND USAGE:
//   pkgrecon files list
//   pkgrecon files clear [sales|template]
//
// Remembered inputs are the files used by the last reconcile run. clear with
// no argument forgets both.
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/ginjaninja78/pkgrecon/internal/store"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List or forget remembered input files",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered input files",
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

		files, err := st.ListFiles(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(files) == 0 {
			fmt.Fprintln(out, "No remembered files.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tNAME\tSIZE\tSAVED")
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Kind, f.Name, f.Size, f.Modified.Local().Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	},
}

var filesClearCmd = &cobra.Command{
	Use:       "clear [sales|template]",
	Short:     "Forget remembered input files",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: store.Kinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && !store.ValidKind(args[0]) {
			return fmt.Errorf("unknown file kind %q (want sales or template)", args[0])
		}

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

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			if err := st.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Forgot all remembered files.")
			return nil
		}

		if err := st.ClearFile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Forgot remembered %s file.\n", args[0])
		return nil
	},
}

func init() {
	filesCmd.AddCommand(filesListCmd, filesClearCmd)
	rootCmd.AddCommand(filesCmd)
}
