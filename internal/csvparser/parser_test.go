package csvparser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"golang.org/x/text/encoding/traditionalchinese"
)

func utf8Settings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", Encoding: "UTF-8"}
}

func TestParseReader_Basic(t *testing.T) {
	t.Parallel()

	in := "\ufeff銷貨日期,銷貨單號,品號,,銷貨數量\n" +
		"2024/01/02,S1, P1 ,ignored,3\n" +
		",,,,\n" +
		"\n" +
		"2024/01/03,S2,P2\n"

	rows, err := ParseReader(strings.NewReader(in), utf8Settings())
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}
	if got := strings.Join(rows.Headers, "|"); got != "銷貨日期|銷貨單號|品號|銷貨數量" {
		t.Fatalf("unexpected headers %q", got)
	}
	if len(rows.Records) != 2 {
		t.Fatalf("want 2 records got %d", len(rows.Records))
	}

	first := rows.Records[0]
	if v, _ := first.Get("品號"); v != "P1" {
		t.Fatalf("cell must be trimmed, got %q", v)
	}
	if first.Len() != 4 {
		t.Fatalf("empty header column must be dropped, got %v", first.Labels())
	}
	if first.RowNumber != 2 {
		t.Fatalf("row number want 2 got %d", first.RowNumber)
	}

	second := rows.Records[1]
	if v, ok := second.Get("銷貨數量"); !ok || v != "" {
		t.Fatalf("short row must pad with empty string, got %v %v", v, ok)
	}
	if second.RowNumber != 4 {
		t.Fatalf("row number want 4 got %d", second.RowNumber)
	}
}

func TestParseReader_Big5(t *testing.T) {
	t.Parallel()

	encoded, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte("品號\t商品總重量(KG)\nP1\t1.5\n"))
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ParseReader(bytes.NewReader(encoded), config.CSVSettings{Delimiter: "tab", Encoding: "Big5"})
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}
	if len(rows.Records) != 1 {
		t.Fatalf("want 1 record got %d", len(rows.Records))
	}
	if v, _ := rows.Records[0].Get("商品總重量(KG)"); v != "1.5" {
		t.Fatalf("want 1.5 got %v", v)
	}
}

func TestParseReader_Empty(t *testing.T) {
	t.Parallel()

	rows, err := ParseReader(strings.NewReader(""), utf8Settings())
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}
	if len(rows.Records) != 0 || len(rows.Headers) != 0 {
		t.Fatalf("expected empty row set, got %+v", rows)
	}
}

func TestParseReader_UnknownEncoding(t *testing.T) {
	t.Parallel()

	_, err := ParseReader(strings.NewReader("a\n1\n"), config.CSVSettings{Encoding: "EBCDIC"})
	if err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestParseReader_PipeDelimitedQuotedCell(t *testing.T) {
	t.Parallel()

	rows, err := ParseReader(strings.NewReader("品號|數量\nP1|\"1,200\"\n"), config.CSVSettings{Delimiter: "|"})
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}
	if v, _ := rows.Records[0].Get("數量"); v != "1,200" {
		t.Fatalf("quoted cell want 1,200 got %v", v)
	}
}
