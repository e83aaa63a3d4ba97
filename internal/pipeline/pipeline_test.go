package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/ginjaninja78/pkgrecon/internal/logger"
	"github.com/ginjaninja78/pkgrecon/internal/store"
	"github.com/ginjaninja78/pkgrecon/internal/validation"
	"golang.org/x/sync/errgroup"
)

const (
	templateCSV = "品號,品名,回收箱(KG)a1,紙箱(KG),商品總重量(KG)B,使用包材名稱\n" +
		"P1,保溫瓶,0.1,0.1,2,紙箱\n"
	salesCSV = "銷貨日期,銷貨單號,品號,品名,銷貨數量\n" +
		"2024/01/02,S1,P1,保溫瓶,3\n" +
		"2024/01/02,S2,X9,未知,1\n"
)

var runTime = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	dir          string
	salesPath    string
	templatePath string
	cfg          *config.MainConfig
	store        *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		dir:          dir,
		salesPath:    filepath.Join(dir, "sales.csv"),
		templatePath: filepath.Join(dir, "template.csv"),
	}
	if err := os.WriteFile(f.salesPath, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.templatePath, []byte(templateCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	f.cfg = config.Default()
	f.cfg.OutputDir = filepath.Join(dir, "out")
	f.cfg.ArchiveDir = filepath.Join(dir, "archive")

	st, err := store.Open(context.Background(), filepath.Join(dir, "pkgrecon.db"))
	if err != nil {
		t.Fatalf("store.Open error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	f.store = st
	return f
}

func (f *fixture) pipeline() *Pipeline {
	p := New(f.cfg, f.store, logger.Nop())
	p.now = func() time.Time { return runTime }
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.ArchiveInputs = true

	res, err := f.pipeline().Run(context.Background(), Options{
		SalesPath:    f.salesPath,
		TemplatePath: f.templatePath,
		Remember:     true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(res.Lines) != 2 || res.Products != 1 {
		t.Fatalf("want 2 lines and 1 product got %d / %d", len(res.Lines), res.Products)
	}
	first := res.Lines[0]
	if first.ProductWeight != 6 || first.PackagingWeight != 0.6 || first.Ratio != 10 || !first.Compliant {
		t.Fatalf("unexpected first line %+v", first)
	}
	if res.Lines[1].Matched || res.Summary.Unmatched != 1 {
		t.Fatalf("second line must be unmatched: %+v", res.Lines[1])
	}

	if len(res.Issues) != 3 || validation.CountErrors(res.Issues) != 0 {
		t.Fatalf("want 3 template warnings got %v", res.Issues)
	}

	wantOutputs := []string{
		filepath.Join(f.cfg.OutputDir, "網購包裝減量報表_2024-01-15.csv"),
		filepath.Join(f.cfg.OutputDir, "網購包裝減量報表_2024-01-15.xlsx"),
	}
	if strings.Join(res.OutputFiles, ",") != strings.Join(wantOutputs, ",") {
		t.Fatalf("outputs want=%v got=%v", wantOutputs, res.OutputFiles)
	}
	for _, path := range append(wantOutputs, res.SummaryFile) {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
	}

	summary, _ := os.ReadFile(res.SummaryFile)
	if !strings.Contains(string(summary), "  X9\n") {
		t.Fatalf("summary must list the unmatched product:\n%s", summary)
	}

	if len(res.ArchivedFiles) != 2 {
		t.Fatalf("want 2 archived inputs got %v", res.ArchivedFiles)
	}

	ctx := context.Background()
	remembered, err := f.store.LoadFile(ctx, store.KindSales)
	if err != nil || remembered.Name != "sales.csv" || string(remembered.Data) != salesCSV {
		t.Fatalf("sales input not remembered: %+v (err=%v)", remembered, err)
	}

	runs, err := f.store.ListRuns(ctx, 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("want 1 recorded run got %d (err=%v)", len(runs), err)
	}
	if runs[0].ID != res.RunID || runs[0].Lines != 2 || len(runs[0].Outputs) != 3 {
		t.Fatalf("unexpected recorded run %+v", runs[0])
	}
}

func TestRun_UsesRememberedInputs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	if err := f.store.SaveFile(ctx, store.KindTemplate, "template.csv", []byte(templateCSV)); err != nil {
		t.Fatal(err)
	}

	res, err := f.pipeline().Run(ctx, Options{SalesPath: f.salesPath, Formats: []string{"CSV"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Template.SourceFile != "template.csv" || res.Products != 1 {
		t.Fatalf("remembered template not used: %+v", res.Template)
	}
	if len(res.OutputFiles) != 1 || filepath.Ext(res.OutputFiles[0]) != ".csv" {
		t.Fatalf("want a single csv output got %v", res.OutputFiles)
	}
	if _, err := f.store.LoadFile(ctx, store.KindSales); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("sales must not be remembered without Remember, got %v", err)
	}
}

func TestRun_MissingInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.pipeline().Run(context.Background(), Options{SalesPath: f.salesPath})
	if err == nil || !strings.Contains(err.Error(), "no template file given and none remembered") {
		t.Fatalf("unexpected error %v", err)
	}

	p := New(f.cfg, nil, logger.Nop())
	if _, err := p.Run(context.Background(), Options{TemplatePath: f.templatePath}); err == nil {
		t.Fatalf("want error without sales path and store")
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.pipeline().Run(context.Background(), Options{
		SalesPath:    f.salesPath,
		TemplatePath: f.templatePath,
		DryRun:       true,
		Remember:     true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(res.Lines) != 2 || len(res.OutputFiles) != 0 || res.SummaryFile != "" {
		t.Fatalf("dry run must reconcile without outputs: %+v", res)
	}
	if _, err := os.Stat(f.cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("output dir must not be created, stat err=%v", err)
	}
	if runs, _ := f.store.ListRuns(context.Background(), 0); len(runs) != 0 {
		t.Fatalf("dry run must not be recorded: %+v", runs)
	}
}

func TestRun_ConcurrentRunsOnOnePipeline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.ArchiveInputs = true
	p := f.pipeline()

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		dryRun := i%2 == 0
		g.Go(func() error {
			res, err := p.Run(context.Background(), Options{
				SalesPath: f.salesPath, TemplatePath: f.templatePath, Formats: []string{"csv"}, DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			if !res.StartTime.Equal(runTime) || len(res.Lines) != 2 {
				return fmt.Errorf("unexpected result %+v", res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Run error: %v", err)
	}
}

func TestRun_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	unsupported := filepath.Join(f.dir, "sales.ods")
	if err := os.WriteFile(unsupported, []byte("binary"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := f.pipeline().Run(context.Background(), Options{SalesPath: unsupported, TemplatePath: f.templatePath})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat got %v", err)
	}
}

func TestRun_BadFormatOption(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.pipeline().Run(context.Background(), Options{
		SalesPath: f.salesPath, TemplatePath: f.templatePath, Formats: []string{"pdf"},
	})
	if err == nil {
		t.Fatalf("want error for unknown format")
	}
}
