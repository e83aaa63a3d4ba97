package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
)

// Preview prints at most limit results as an aligned table, followed by a
// line saying how many rows were left out. A limit <= 0 prints nothing.
func Preview(w io.Writer, results []reconcile.Result, limit int) error {
	if limit <= 0 {
		return nil
	}

	shown := results
	if len(shown) > limit {
		shown = shown[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Headers(), "\t"))
	for _, r := range shown {
		fmt.Fprintln(tw, strings.Join(TextRow(r), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}

	if hidden := len(results) - len(shown); hidden > 0 {
		if _, err := fmt.Fprintf(w, "... %d more row(s) not shown (showing %d of %d)\n", hidden, len(shown), len(results)); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}
	return nil
}
