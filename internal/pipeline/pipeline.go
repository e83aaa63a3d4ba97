// =============================================================================
// Packaging Reconciler - Pipeline Module
// =============================================================================
//
// This module orchestrates a complete reconciliation run, from reading the two
// input files to writing the reports.
//
// PIPELINE:
//   1. Resolve the inputs (given paths, or the remembered files)
//   2. Decode the sales ledger and the packaging template in parallel
//   3. Check both header rows and report unresolved fields
//   4. Build the template index and reconcile every sales line
//   5. Write the CSV/XLSX reports and the summary log
//   6. Archive the inputs (optional)
//   7. Remember the inputs and record the run in the store
//
// Steps 5 to 7 are skipped on a dry run.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/pkgrecon/internal/config"
	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
	"github.com/ginjaninja78/pkgrecon/internal/report"
	"github.com/ginjaninja78/pkgrecon/internal/store"
	"github.com/ginjaninja78/pkgrecon/internal/types"
	"github.com/ginjaninja78/pkgrecon/internal/validation"
	"github.com/ginjaninja78/pkgrecon/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of a run.
type Result struct {
	// RunID identifies the run in the history and in {uuid} file names.
	RunID string

	// Sales and Template are the decoded inputs.
	Sales    *types.RowSet
	Template *types.RowSet

	// Products is the number of distinct products in the template index.
	Products int

	// Lines holds one result per sales row, in input order.
	Lines []reconcile.Result

	// Summary aggregates Lines.
	Summary reconcile.Summary

	// Issues lists header fields that could not be resolved.
	Issues []*validation.HeaderIssue

	// OutputFiles are the reports written, in format order.
	OutputFiles []string

	// SummaryFile is the run summary log. Empty on a dry run.
	SummaryFile string

	// ArchivedFiles are the archive copies of the inputs.
	ArchivedFiles []string

	StartTime time.Time
	EndTime   time.Time
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Options selects the inputs and side effects of a run.
type Options struct {
	// SalesPath and TemplatePath are the input files. An empty path falls
	// back to the remembered file of that kind.
	SalesPath    string
	TemplatePath string

	// Formats overrides the configured export formats when non-empty.
	Formats []string

	// DryRun reconciles without writing, remembering or recording anything.
	DryRun bool

	// Remember saves the inputs read from disk for later runs.
	Remember bool
}

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Store is the persistence the pipeline needs.
type Store interface {
	SaveFile(ctx context.Context, kind, name string, data []byte) error
	LoadFile(ctx context.Context, kind string) (*store.StoredFile, error)
	RecordRun(ctx context.Context, run store.Run) error
}

// Pipeline runs reconciliations with one configuration.
type Pipeline struct {
	cfg    *config.MainConfig
	store  Store
	logger Logger
	files  *utils.FileManager
	now    func() time.Time
}

// New creates a Pipeline. st may be nil, in which case inputs must be given
// as paths and runs are not recorded.
func New(cfg *config.MainConfig, st Store, logger Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		logger: logger,
		files:  utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir),
		now:    time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes one reconciliation.
//
// RETURNS:
//   - The run result. Header issues never fail a run.
//   - An error if an input cannot be found or decoded, or a report cannot be
//     written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{
		RunID:     uuid.New().String(),
		StartTime: p.now(),
	}

	formats := p.cfg.ExportFormats
	if len(opts.Formats) > 0 {
		var err error
		if formats, err = config.ParseFormats(opts.Formats); err != nil {
			return nil, err
		}
	}

	// =========================================================================
	// STEP 1: RESOLVE INPUTS
	// =========================================================================

	salesIn, err := p.resolveInput(ctx, store.KindSales, opts.SalesPath)
	if err != nil {
		return nil, err
	}
	templateIn, err := p.resolveInput(ctx, store.KindTemplate, opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Starting reconciliation",
		"run_id", res.RunID, "sales", salesIn.Name, "template", templateIn.Name)

	// =========================================================================
	// STEP 2: DECODE BOTH INPUTS
	// =========================================================================
	// The engine only starts once both row sets are fully decoded.

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := decodeContext(gctx, salesIn, p.cfg.CSVSettings)
		res.Sales = rows
		return err
	})
	g.Go(func() error {
		rows, err := decodeContext(gctx, templateIn, p.cfg.CSVSettings)
		res.Template = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug("Decoded inputs",
		"sales_rows", len(res.Sales.Records), "template_rows", len(res.Template.Records))

	// =========================================================================
	// STEP 3: HEADER DIAGNOSTICS
	// =========================================================================

	extra, err := p.cfg.HeaderVariants()
	if err != nil {
		return nil, err
	}
	resolver := reconcile.NewResolver(extra)

	res.Issues = append(validation.CheckTemplate(res.Template.Headers, resolver),
		validation.CheckSales(res.Sales.Headers, resolver)...)
	for _, issue := range res.Issues {
		p.logger.Warn("Header check", "severity", issue.Severity, "input", issue.Input,
			"field", issue.Field.String(), "message", issue.Message)
	}

	// =========================================================================
	// STEP 4: RECONCILE
	// =========================================================================

	idx := reconcile.BuildIndex(res.Template.Records, resolver)
	res.Products = len(idx)
	res.Lines = reconcile.Reconcile(res.Sales.Records, idx, resolver)
	res.Summary = reconcile.Summarize(res.Lines)

	p.logger.Info("Reconciled sales lines",
		"lines", res.Summary.Lines, "matched", res.Summary.Matched,
		"compliant", res.Summary.Compliant, "non_compliant", res.Summary.NonCompliant)

	if opts.DryRun {
		res.EndTime = p.now()
		return res, nil
	}

	// =========================================================================
	// STEP 5: WRITE REPORTS
	// =========================================================================

	if err := p.files.EnsureDirectories(); err != nil {
		return nil, err
	}

	for _, format := range formats {
		path, err := p.writeReport(format, res)
		if err != nil {
			return nil, err
		}
		res.OutputFiles = append(res.OutputFiles, path)
		p.logger.Info("Wrote report", "format", format, "path", path)
	}

	// =========================================================================
	// STEP 6: ARCHIVE INPUTS
	// =========================================================================

	if p.cfg.ArchiveInputs {
		for _, in := range []*Input{salesIn, templateIn} {
			if in.Path == "" {
				continue
			}
			archived, err := p.files.ArchiveInputFile(in.Path, res.StartTime)
			if err != nil {
				// Log the error but don't fail the run.
				p.logger.Warn("Failed to archive input", "path", in.Path, "error", err)
				continue
			}
			res.ArchivedFiles = append(res.ArchivedFiles, archived)
		}
	}

	res.EndTime = p.now()

	summaryPath, err := utils.WriteSummaryLog(p.runSummary(res), p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	res.SummaryFile = summaryPath

	// =========================================================================
	// STEP 7: REMEMBER AND RECORD
	// =========================================================================

	if p.store != nil {
		if opts.Remember {
			p.remember(ctx, store.KindSales, salesIn)
			p.remember(ctx, store.KindTemplate, templateIn)
		}
		if err := p.store.RecordRun(ctx, p.runRecord(res)); err != nil {
			p.logger.Warn("Failed to record run", "run_id", res.RunID, "error", err)
		}
	}

	return res, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveInput reads path, or restores the remembered file of kind when path
// is empty.
func (p *Pipeline) resolveInput(ctx context.Context, kind, path string) (*Input, error) {
	if path != "" {
		return ReadInput(path)
	}
	if p.store == nil {
		return nil, fmt.Errorf("no %s file given", kind)
	}

	f, err := p.store.LoadFile(ctx, kind)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no %s file given and none remembered", kind)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Info("Using remembered input", "kind", kind, "name", f.Name, "saved", f.Modified)
	return &Input{Name: f.Name, Data: f.Data}, nil
}

func decodeContext(ctx context.Context, in *Input, settings config.CSVSettings) (*types.RowSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(in, settings)
}

// writeReport writes one report file and returns its path.
func (p *Pipeline) writeReport(format string, res *Result) (string, error) {
	name := utils.GenerateOutputFileName(p.cfg.OutputNameFormat, "."+format, res.StartTime,
		map[string]string{"uuid": res.RunID})
	path := filepath.Join(p.cfg.OutputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	switch format {
	case config.FormatCSV:
		err = report.WriteCSV(file, res.Lines, report.CSVOptions{BOM: p.cfg.CSVBOM})
	case config.FormatXLSX:
		err = report.WriteXLSX(file, res.Lines)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// remember saves an input read from disk. Failures are logged only.
func (p *Pipeline) remember(ctx context.Context, kind string, in *Input) {
	if in.Path == "" {
		return
	}
	if err := p.store.SaveFile(ctx, kind, in.Name, in.Data); err != nil {
		p.logger.Warn("Failed to remember input", "kind", kind, "error", err)
		return
	}
	p.logger.Debug("Remembered input", "kind", kind, "name", in.Name)
}

func (p *Pipeline) runSummary(res *Result) utils.RunSummary {
	issues := make([]string, len(res.Issues))
	for i, issue := range res.Issues {
		issues[i] = issue.Error()
	}
	return utils.RunSummary{
		RunID:        res.RunID,
		StartTime:    res.StartTime,
		EndTime:      res.EndTime,
		SalesFile:    res.Sales.SourceFile,
		TemplateFile: res.Template.SourceFile,
		SalesRows:    len(res.Sales.Records),
		TemplateRows: len(res.Template.Records),
		Products:     res.Products,
		Totals:       res.Summary,
		UnmatchedIDs: reconcile.UnmatchedIDs(res.Lines),
		HeaderIssues: issues,
		OutputFiles:  res.OutputFiles,
	}
}

func (p *Pipeline) runRecord(res *Result) store.Run {
	outputs := append([]string(nil), res.OutputFiles...)
	if res.SummaryFile != "" {
		outputs = append(outputs, res.SummaryFile)
	}
	return store.Run{
		ID:           res.RunID,
		StartedAt:    res.StartTime,
		FinishedAt:   res.EndTime,
		SalesFile:    res.Sales.SourceFile,
		TemplateFile: res.Template.SourceFile,
		Lines:        res.Summary.Lines,
		Matched:      res.Summary.Matched,
		Unmatched:    res.Summary.Unmatched,
		Compliant:    res.Summary.Compliant,
		NonCompliant: res.Summary.NonCompliant,
		Outputs:      outputs,
	}
}
