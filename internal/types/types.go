// =============================================================================
// Packaging Reconciler - Shared Types
// =============================================================================
//
// This package contains the row representation shared by the input decoders
// (csvparser, xlsxparser) and the reconciliation engine. Keeping it here
// avoids an import cycle between the decoders and the engine.
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPES
// =============================================================================

// Field is a single labelled cell of a decoded row.
type Field struct {
	// Label is the column header exactly as it appeared in the source file.
	Label string

	// Value is the cell value. Decoders produce strings; callers building
	// records by hand may also use numeric values or nil.
	Value any
}

// Record is one decoded row: column label -> cell value.
//
// Unlike a plain map, a Record keeps the column order of the source file.
// Header resolution scans labels in that order, so the order is part of the
// record's meaning. Labels are unique within a record.
type Record struct {
	Fields []Field

	// RowNumber is the 1-based position of the row in the source table, the
	// header being row 1, or 0 when the record was not read from a file.
	// Used for diagnostics only.
	RowNumber int
}

// NewRecord builds a record from alternating label/value pairs. It is mostly
// useful in tests.
func NewRecord(pairs ...any) Record {
	var rec Record
	for i := 0; i+1 < len(pairs); i += 2 {
		label, _ := pairs[i].(string)
		rec.Set(label, pairs[i+1])
	}
	return rec
}

// Set stores value under label. An existing label keeps its position and
// has its value replaced; a new label is appended.
func (r *Record) Set(label string, value any) {
	for i := range r.Fields {
		if r.Fields[i].Label == label {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Label: label, Value: value})
}

// Get returns the value stored under the exact label.
func (r Record) Get(label string) (any, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return nil, false
}

// Labels returns the column labels in source order.
func (r Record) Labels() []string {
	labels := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		labels[i] = f.Label
	}
	return labels
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.Fields)
}

// =============================================================================
// ROW SET
// =============================================================================

// RowSet is the decoded content of one input file.
type RowSet struct {
	// SourceFile is the path the rows were read from.
	SourceFile string

	// Headers holds the non-empty header labels in column order.
	Headers []string

	// Records holds the data rows, blank rows excluded.
	Records []Record
}
