// =============================================================================
// Packaging Reconciler - XLSX Parser
// =============================================================================
//
// This module decodes workbook exports into row sets. Only the first sheet
// is read; its first row holds the column headers:
//
//   | 品號 | 品名     | 回收箱(KG)a1 | 紙箱(KG) | ... | 商品總重量(KG)B |
//   |------|----------|--------------|----------|-----|-----------------|
//   | P1   | 保溫瓶   | 0.12         | 0.08     | ... | 0.45            |
//
// Data cells are read as their stored values, so a weight of 0.0125 shown
// as "0.01" under a two-decimal format still arrives as 0.0125. Cells with a
// date number format keep their displayed text. Numeric coercion happens in
// the reconciliation engine.
//
// Legacy BIFF workbooks (.xls) are read through ParseLegacyReader and share
// the same row layout rules.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/ginjaninja78/pkgrecon/internal/types"
	"github.com/xuri/excelize/v2"
)

// legacyMaxCols is the column limit of the BIFF8 format.
const legacyMaxCols = 256

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseReader reads the first sheet of an XLSX document from r.
//
// PARAMETERS:
//   - r: The workbook content.
//
// RETURNS:
//   - The decoded row set.
//   - An error if the workbook cannot be opened or read.
func ParseReader(r io.Reader) (*types.RowSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFirstSheet(f)
}

// ParseLegacyReader reads the first sheet of a legacy .xls workbook from r.
func ParseLegacyReader(r io.ReadSeeker) (rows *types.RowSet, err error) {
	// The BIFF decoder panics on truncated or malformed streams.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("failed to read legacy workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open legacy workbook: no workbook stream")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	width := 0
	grid := make([][]string, int(sheet.MaxRow)+1)
	for i := range grid {
		row := legacyRow(sheet, i)
		if row == nil {
			continue
		}
		limit := legacyMaxCols
		if i > 0 {
			limit = width
		}
		cells := make([]string, 0, limit)
		for j := 0; j < limit; j++ {
			cells = append(cells, row.Col(j))
		}
		cells = trimTrailingEmpty(cells)
		if i == 0 {
			width = len(cells)
		}
		grid[i] = cells
	}

	return buildRowSet(grid), nil
}

// parseFirstSheet converts the first sheet of an open workbook.
func parseFirstSheet(f *excelize.File) (*types.RowSet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	display, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	dates := dateStyles{file: f, known: make(map[int]bool)}
	grid := make([][]string, len(display))
	for i := range display {
		// Header text stays as displayed.
		if i == 0 {
			grid[i] = display[i]
			continue
		}
		var stored []string
		if i < len(raw) {
			stored = raw[i]
		}
		width := max(len(display[i]), len(stored))
		cells := make([]string, width)
		for j := 0; j < width; j++ {
			shown := cellAt(display[i], j)
			value := cellAt(stored, j)
			if value != shown && dates.isDate(sheet, j+1, i+1) {
				value = shown
			}
			cells[j] = value
		}
		grid[i] = cells
	}

	return buildRowSet(grid), nil
}

// buildRowSet maps a sheet grid to records. Row 0 holds the headers; empty
// header cells carry no column and blank rows are skipped. RowNumber keeps
// the 1-based sheet row.
func buildRowSet(grid [][]string) *types.RowSet {
	if len(grid) == 0 {
		return &types.RowSet{}
	}

	var headers []string
	var columns []int
	for i, h := range grid[0] {
		if strings.TrimSpace(h) == "" {
			continue
		}
		headers = append(headers, h)
		columns = append(columns, i)
	}

	records := make([]types.Record, 0, len(grid)-1)
	for i := 1; i < len(grid); i++ {
		row := grid[i]

		// Skip empty rows.
		if isRowEmpty(row) {
			continue
		}

		rec := types.Record{RowNumber: i + 1}
		for j, header := range headers {
			rec.Set(header, strings.TrimSpace(cellAt(row, columns[j])))
		}
		records = append(records, rec)
	}

	return &types.RowSet{Headers: headers, Records: records}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// dateStyles answers whether a cell carries a date or time number format,
// caching the answer per style index.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet string, col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	id, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	if isDate, ok := d.known[id]; ok {
		return isDate
	}

	isDate := false
	if style, err := d.file.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isBuiltInDateFormat(style.NumFmt)
		}
	}
	d.known[id] = isDate
	return isDate
}

// isBuiltInDateFormat reports whether a built-in number format id renders a
// date or time, including the East Asian locale ids.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	case id >= 71 && id <= 81:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code uses date or time
// tokens outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

// legacyRow returns row i of a legacy sheet, or nil when the sheet stores
// nothing for it.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func trimTrailingEmpty(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
