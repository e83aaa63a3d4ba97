package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/xuri/excelize/v2"
)

func TestDecode_CSV(t *testing.T) {
	t.Parallel()

	rows, err := Decode(&Input{Name: "Sales.CSV", Data: []byte(salesCSV)}, config.Default().CSVSettings)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if rows.SourceFile != "Sales.CSV" || len(rows.Records) != 2 || len(rows.Headers) != 5 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestDecode_XLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range [][]any{{"品號", "商品總重量"}, {"P1", 2.5}} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Decode(&Input{Name: "template.xlsx", Data: buf.Bytes()}, config.CSVSettings{})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(rows.Records) != 1 {
		t.Fatalf("want 1 record got %d", len(rows.Records))
	}
	if v, _ := rows.Records[0].Get("商品總重量"); v != "2.5" {
		t.Fatalf("weight cell want 2.5 got %v", v)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"notes.pdf", "old.xlsb", "noext"} {
		_, err := Decode(&Input{Name: name, Data: []byte("x")}, config.CSVSettings{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: want ErrUnsupportedFormat got %v", name, err)
		}
	}
}

func TestDecode_CorruptWorkbook(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"broken.xlsx", "broken.XLS"} {
		_, err := Decode(&Input{Name: name, Data: []byte("not a workbook")}, config.CSVSettings{})
		if err == nil || errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: want a decode error got %v", name, err)
		}
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := ReadInput(path)
	if err != nil {
		t.Fatalf("ReadInput error: %v", err)
	}
	if in.Name != "sales.csv" || in.Path != path || string(in.Data) != salesCSV {
		t.Fatalf("unexpected input %+v", in)
	}

	if _, err := ReadInput(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
