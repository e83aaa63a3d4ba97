package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "pkgrecon.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFiles_SaveLoadReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }

	if _, err := s.LoadFile(ctx, KindSales); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}

	if err := s.SaveFile(ctx, KindSales, "a.csv", []byte("one")); err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	if err := s.SaveFile(ctx, KindSales, "b.csv", []byte("two")); err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}

	f, err := s.LoadFile(ctx, KindSales)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if f.Name != "b.csv" || string(f.Data) != "two" {
		t.Fatalf("want latest file got %s %q", f.Name, f.Data)
	}
	if !f.Modified.Equal(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected modified time %v", f.Modified)
	}
}

func TestFiles_UnknownKind(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if err := s.SaveFile(context.Background(), "orders", "x.csv", nil); err == nil {
		t.Fatalf("want error for unknown kind")
	}
}

func TestFiles_ListAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SaveFile(ctx, KindTemplate, "t.xlsx", []byte("12345")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFile(ctx, KindSales, "s.csv", []byte("123")); err != nil {
		t.Fatal(err)
	}

	files, err := s.ListFiles(ctx)
	if err != nil {
		t.Fatalf("ListFiles error: %v", err)
	}
	if len(files) != 2 || files[0].Kind != KindSales || files[0].Size != 3 || files[1].Size != 5 {
		t.Fatalf("unexpected listing %+v", files)
	}

	if err := s.ClearFile(ctx, KindSales); err != nil {
		t.Fatalf("ClearFile error: %v", err)
	}
	if err := s.ClearFile(ctx, KindSales); err != nil {
		t.Fatalf("clearing twice must not fail: %v", err)
	}
	if _, err := s.LoadFile(ctx, KindSales); !errors.Is(err, ErrNotFound) {
		t.Fatalf("sales must be gone, got %v", err)
	}
	if _, err := s.LoadFile(ctx, KindTemplate); err != nil {
		t.Fatalf("template must survive, got %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll error: %v", err)
	}
	if files, _ := s.ListFiles(ctx); len(files) != 0 {
		t.Fatalf("want no files got %+v", files)
	}
}

func TestRuns_RecordAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		run := Run{
			ID:           id,
			StartedAt:    base.Add(time.Duration(i) * 500 * time.Millisecond),
			FinishedAt:   base.Add(time.Duration(i)*500*time.Millisecond + time.Second),
			SalesFile:    "s.csv",
			TemplateFile: "t.xlsx",
			Lines:        i + 1,
			Matched:      i,
			Unmatched:    1,
			Compliant:    i + 1,
		}
		if id == "r3" {
			run.Outputs = []string{"out/a.csv", "out/a.xlsx"}
		}
		if err := s.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun error: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns error: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "r3" || runs[1].ID != "r2" {
		t.Fatalf("want newest first [r3 r2] got %+v", runs)
	}
	if len(runs[0].Outputs) != 2 || runs[0].Outputs[1] != "out/a.xlsx" {
		t.Fatalf("outputs not round-tripped: %v", runs[0].Outputs)
	}
	if runs[1].Outputs != nil {
		t.Fatalf("want nil outputs got %v", runs[1].Outputs)
	}

	all, err := s.ListRuns(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("want all 3 runs got %d (err=%v)", len(all), err)
	}

	if err := s.RecordRun(ctx, Run{ID: "r1", StartedAt: base, FinishedAt: base}); err == nil {
		t.Fatalf("duplicate run id must fail")
	}
}
