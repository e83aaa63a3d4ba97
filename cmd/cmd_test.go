package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testTemplate = "品號,品名,回收箱(KG)a1,紙箱(KG),破壞袋(KG),膠帶(KG),回收緩衝材(KG),商品總重量(KG)B,使用包材名稱\n" +
		"P1,保溫瓶,0.1,0.1,0,0,0,2,紙箱\n"
	testSales = "銷貨日期,銷貨單號,品號,品名,銷貨數量\n" +
		"2024/01/02,S1,P1,保溫瓶,3\n" +
		"2024/01/02,S2,X9,未知,1\n"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("pkgrecon %s: %v\n%s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

// The commands share package-level flag state, so the whole CLI flow runs as
// one sequential test.
func TestCLI_Flow(t *testing.T) {
	dir := t.TempDir()
	salesFile := filepath.Join(dir, "sales.csv")
	templateFile := filepath.Join(dir, "template.csv")
	configFile := filepath.Join(dir, "config.yaml")

	for path, body := range map[string]string{
		salesFile:    testSales,
		templateFile: testTemplate,
		configFile: fmt.Sprintf("output_dir: %q\nstore_path: %q\nlog_level: error\n",
			filepath.Join(dir, "out"), filepath.Join(dir, "state.db")),
	} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// A dry run on a fresh setup creates neither the store nor the output dir.
	dryConfig := filepath.Join(dir, "dry.yaml")
	dryStore := filepath.Join(dir, "dry.db")
	dryOut := filepath.Join(dir, "dry-out")
	if err := os.WriteFile(dryConfig, []byte(fmt.Sprintf("output_dir: %q\nstore_path: %q\nlog_level: error\n",
		dryOut, dryStore)), 0o644); err != nil {
		t.Fatal(err)
	}
	out := execute(t, "reconcile", "--config", dryConfig, "--dry-run",
		"--sales", salesFile, "--template", templateFile)
	if !strings.Contains(out, "Dry run: no files written.") {
		t.Fatalf("unexpected dry run output:\n%s", out)
	}
	for _, path := range []string{dryStore, dryOut} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("dry run must not create %s, stat err=%v", path, err)
		}
	}
	dryRun = false

	out = execute(t, "reconcile", "--config", configFile,
		"--sales", salesFile, "--template", templateFile, "--format", "csv", "--preview", "1")
	for _, want := range []string{
		"Template:  template.csv (1 rows, 1 products)",
		"showing 1 of 2",
		"Lines:          2",
		"Unmatched:      1",
		"Packaging (kg): 0.6",
		"網購包裝減量報表_",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("reconcile output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Header check") {
		t.Fatalf("no header issues expected:\n%s", out)
	}

	out = execute(t, "files", "list", "--config", configFile)
	if !strings.Contains(out, "sales.csv") || !strings.Contains(out, "template.csv") {
		t.Fatalf("files list must show both inputs:\n%s", out)
	}

	// Omitted inputs fall back to the remembered files.
	salesPath, templatePath = "", ""
	out = execute(t, "reconcile", "--config", configFile, "--dry-run")
	if !strings.Contains(out, "Dry run: no files written.") || !strings.Contains(out, "Sales:     sales.csv (2 rows)") {
		t.Fatalf("dry run with remembered inputs failed:\n%s", out)
	}
	dryRun = false

	out = execute(t, "history", "--config", configFile)
	if strings.Count(out, "sales.csv") != 1 {
		t.Fatalf("history must list exactly the one recorded run:\n%s", out)
	}

	out = execute(t, "files", "clear", "template", "--config", configFile)
	if !strings.Contains(out, "Forgot remembered template file.") {
		t.Fatalf("unexpected clear output:\n%s", out)
	}
	out = execute(t, "files", "clear", "--config", configFile)
	if !strings.Contains(out, "Forgot all remembered files.") {
		t.Fatalf("unexpected clear output:\n%s", out)
	}
	out = execute(t, "files", "list", "--config", configFile)
	if !strings.Contains(out, "No remembered files.") {
		t.Fatalf("files must be empty:\n%s", out)
	}

	out = execute(t, "version")
	if !strings.Contains(out, "Packaging Reconciler") {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}
