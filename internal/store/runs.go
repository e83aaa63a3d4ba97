package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Run is one recorded reconciliation run.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	SalesFile    string
	TemplateFile string
	Lines        int
	Matched      int
	Unmatched    int
	Compliant    int
	NonCompliant int
	Outputs      []string
}

// RecordRun stores a completed run.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, finished_at, sales_file, template_file,
			lines, matched, unmatched, compliant, non_compliant, outputs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.SalesFile, run.TemplateFile,
		run.Lines, run.Matched, run.Unmatched, run.Compliant, run.NonCompliant,
		strings.Join(run.Outputs, "\n"),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, sales_file, template_file,
			lines, matched, unmatched, compliant, non_compliant, outputs
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
			outputs           string
		)
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.SalesFile, &run.TemplateFile,
			&run.Lines, &run.Matched, &run.Unmatched, &run.Compliant, &run.NonCompliant,
			&outputs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		if outputs != "" {
			run.Outputs = strings.Split(outputs, "\n")
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}
