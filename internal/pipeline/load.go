package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/ginjaninja78/pkgrecon/internal/csvparser"
	"github.com/ginjaninja78/pkgrecon/internal/types"
	"github.com/ginjaninja78/pkgrecon/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for inputs that are neither delimited
// text nor a spreadsheet workbook.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Input is one input file, either read from disk or restored from the store.
type Input struct {
	// Name is the file name used to pick the decoder and to label the run.
	Name string

	// Path is the file on disk. It is empty for remembered inputs.
	Path string

	// Data is the raw file content.
	Data []byte
}

// ReadInput reads a file from disk.
func ReadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &Input{Name: filepath.Base(path), Path: path, Data: data}, nil
}

// Decode turns an input into rows, choosing the decoder by file extension.
//
// SUPPORTED FORMATS:
//   - .csv, .txt: delimited text, decoded with the configured CSV settings
//   - .xlsx, .xlsm: first sheet of the workbook
//   - .xls: first sheet of a legacy BIFF workbook
//
// Anything else yields ErrUnsupportedFormat.
func Decode(in *Input, settings config.CSVSettings) (*types.RowSet, error) {
	var (
		rows *types.RowSet
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(in.Name)); ext {
	case ".csv", ".txt":
		rows, err = csvparser.ParseReader(bytes.NewReader(in.Data), settings)
	case ".xlsx", ".xlsm":
		rows, err = xlsxparser.ParseReader(bytes.NewReader(in.Data))
	case ".xls":
		rows, err = xlsxparser.ParseLegacyReader(bytes.NewReader(in.Data))
	default:
		return nil, fmt.Errorf("%s: %w", in.Name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", in.Name, err)
	}

	rows.SourceFile = in.Name
	return rows, nil
}
