// =============================================================================
// Packaging Reconciler - CSV Parser Module
// =============================================================================
//
// This module decodes delimited-text exports (sales ledgers, packaging
// templates) into row sets. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - UTF-8 (with or without BOM), Big5 and GBK encoded files
//   - Ragged rows and lazily quoted fields
//
// The first row is the header row. Empty header cells are dropped, and rows
// whose cells are all blank are skipped.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/ginjaninja78/pkgrecon/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseReader decodes CSV content from r.
//
// PARAMETERS:
//   - r: The file content, in the configured encoding.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - The decoded row set.
//   - An error if the content cannot be decoded or parsed.
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.RowSet, error) {
	dec, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(bufio.NewReader(r), dec))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return &types.RowSet{}, nil
	}

	headers, columns := extractHeaders(allRows[0])

	rowSet := &types.RowSet{
		Headers: headers,
		Records: extractDataRows(allRows[1:], headers, columns),
	}
	return rowSet, nil
}

// decoderFor returns the decoder for a configured encoding name. UTF-8 input
// has any leading BOM removed.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "")) {
	case "", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "big5", "cp950":
		return traditionalchinese.Big5.NewDecoder(), nil
	case "gbk", "cp936", "gb2312":
		return simplifiedchinese.GBK.NewDecoder(), nil
	case "gb18030":
		return simplifiedchinese.GB18030.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if r := []rune(settings.Delimiter); len(r) > 0 {
			reader.Comma = r[0]
		} else {
			reader.Comma = ','
		}
	}

	// Spreadsheet exports are frequently ragged and loosely quoted.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// extractHeaders returns the non-empty header labels and the column index of
// each. Header text is kept verbatim; the resolver normalizes it.
func extractHeaders(headerRow []string) ([]string, []int) {
	var headers []string
	var columns []int
	for i, h := range headerRow {
		if strings.TrimSpace(h) == "" {
			continue
		}
		headers = append(headers, h)
		columns = append(columns, i)
	}
	return headers, columns
}

// extractDataRows converts data rows to records. Missing trailing cells
// become empty strings.
func extractDataRows(rows [][]string, headers []string, columns []int) []types.Record {
	records := make([]types.Record, 0, len(rows))

	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		// Header is row 1, so the first data row is row 2.
		rec := types.Record{RowNumber: i + 2}
		for j, header := range headers {
			value := ""
			if col := columns[j]; col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			rec.Set(header, value)
		}
		records = append(records, rec)
	}

	return records
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
