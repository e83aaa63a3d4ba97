package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
)

// CSVOptions controls CSV output.
type CSVOptions struct {
	// BOM writes a UTF-8 byte order mark before the header row.
	BOM bool
}

// WriteCSV writes the header row and one row per result to w.
func WriteCSV(w io.Writer, results []reconcile.Result, opts CSVOptions) error {
	if opts.BOM {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, r := range results {
		if err := cw.Write(TextRow(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
