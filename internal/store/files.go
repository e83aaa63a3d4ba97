package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Input kinds that can be remembered.
const (
	KindSales    = "sales"
	KindTemplate = "template"
)

// Kinds lists every input kind, in display order.
var Kinds = []string{KindSales, KindTemplate}

// ValidKind reports whether kind names a rememberable input.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// StoredFile is a remembered input file.
type StoredFile struct {
	Kind     string
	Name     string
	Data     []byte
	Modified time.Time
}

// FileInfo describes a remembered file without its content.
type FileInfo struct {
	Kind     string
	Name     string
	Size     int64
	Modified time.Time
}

// SaveFile remembers data as the input of the given kind, replacing any
// previous file of that kind.
func (s *Store) SaveFile(ctx context.Context, kind, name string, data []byte) error {
	if !ValidKind(kind) {
		return fmt.Errorf("unknown file kind %q", kind)
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (kind, name, data, modified)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			modified = excluded.modified
	`, kind, name, data, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("failed to save %s file: %w", kind, err)
	}
	return nil
}

// LoadFile returns the remembered input of the given kind, or ErrNotFound.
func (s *Store) LoadFile(ctx context.Context, kind string) (*StoredFile, error) {
	var (
		f        = StoredFile{Kind: kind}
		modified string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, data, modified FROM files WHERE kind = ?`, kind,
	).Scan(&f.Name, &f.Data, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no remembered %s file: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s file: %w", kind, err)
	}
	if f.Modified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return &f, nil
}

// ClearFile forgets the remembered input of the given kind. Clearing a kind
// with nothing remembered is not an error.
func (s *Store) ClearFile(ctx context.Context, kind string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("failed to clear %s file: %w", kind, err)
	}
	return nil
}

// ClearAll forgets every remembered input.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}
	return nil
}

// ListFiles describes every remembered input, ordered by kind.
func (s *Store) ListFiles(ctx context.Context) ([]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, name, length(data), modified FROM files ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var out []FileInfo
	for rows.Next() {
		var (
			info     FileInfo
			modified string
		)
		if err := rows.Scan(&info.Kind, &info.Name, &info.Size, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		if info.Modified, err = parseTime(modified); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return out, nil
}
