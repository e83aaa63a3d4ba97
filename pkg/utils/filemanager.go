// =============================================================================
// Packaging Reconciler - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for a reconciliation run:
//   - Directory management
//   - Output file naming
//   - Run summary log generation
//   - Optional archival of processed input files
//
// ARCHIVAL STRATEGY:
//   - Input files are copied to archive_dir after a successful run
//   - The originals stay where they are, so a later run can reuse them
//   - Failed runs archive nothing
//
// CUSTOMIZATION:
//   - Enable date-based archive subdirectories with UseTimestampSubdirs
//   - Change the output name pattern with output_name_format in config.yaml
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a reconciliation run.
type FileManager struct {
	// OutputDir is the directory where reports and summaries are written.
	OutputDir string

	// ArchiveDir is the directory for archived input files.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2024/01/15/sales.csv
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output and archive directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile copies an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//   - at: The run time, used to name the copy.
//
// RETURNS:
//   - The path to the archived copy.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string, at time.Time) (string, error) {
	archivePath := fm.getArchivePath(filePath, at)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file. The file name is
// prefixed with the run time so repeated runs on the same input never collide.
func (fm *FileManager) getArchivePath(filePath string, at time.Time) string {
	fileName := at.Format("20060102_150405") + "_" + filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", at.Year()),
			fmt.Sprintf("%02d", at.Month()),
			fmt.Sprintf("%02d", at.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name pattern.
//
// PARAMETERS:
//   - format: The pattern for the file name.
//             Placeholders:
//               {uuid}      - A random UUID, unless params supplies one
//               {timestamp} - Run timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Run date (YYYY-MM-DD)
//               {time}      - Run time (HHMMSS)
//   - extension: The extension to ensure, e.g. ".csv".
//   - now: The run time.
//   - params: Extra placeholder values, keyed without braces.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format:    "網購包裝減量報表_{date}"
//   extension: ".xlsx"
//   output:    "網購包裝減量報表_2024-01-15.xlsx"
func GenerateOutputFileName(format, extension string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("2006-01-02"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	result = sanitizeFileName(result)

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// sanitizeFileName replaces characters that are not allowed in file names.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a reconciliation run.
type RunSummary struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	SalesFile    string
	TemplateFile string
	SalesRows    int
	TemplateRows int
	Products     int
	Totals       reconcile.Summary
	UnmatchedIDs []string
	HeaderIssues []string
	OutputFiles  []string
}

// WriteSummaryLog writes a run summary to a text file in outputDir.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryFileName := fmt.Sprintf("reconcile_summary_%s.txt", summary.StartTime.Format("20060102_150405"))
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := FormatSummary(file, summary); err != nil {
		return "", err
	}

	return summaryPath, nil
}

// FormatSummary writes the text form of a run summary to w.
func FormatSummary(w io.Writer, summary RunSummary) error {
	writer := bufio.NewWriter(w)
	t := summary.Totals

	header := fmt.Sprintf("Packaging Reconciler - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Sales File:     %s (%d rows)\n"+
		"  Template File:  %s (%d rows, %d products)\n\n"+
		"Statistics:\n"+
		"  Lines:              %d\n"+
		"  Matched:            %d\n"+
		"  Unmatched:          %d\n"+
		"  Compliant:          %d\n"+
		"  Non-compliant:      %d\n"+
		"  Packaging Weight:   %s kg\n"+
		"  Product Weight:     %s kg\n"+
		"  Scale Weight:       %s kg\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.SalesFile, summary.SalesRows,
		summary.TemplateFile, summary.TemplateRows, summary.Products,
		t.Lines, t.Matched, t.Unmatched, t.Compliant, t.NonCompliant,
		reconcile.ToText(t.PackagingWeight),
		reconcile.ToText(t.ProductWeight),
		reconcile.ToText(t.ScaleWeight))
	writer.WriteString(header)

	if len(summary.HeaderIssues) > 0 {
		writer.WriteString("Header Issues:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, issue := range summary.HeaderIssues {
			writer.WriteString(fmt.Sprintf("  %s\n", issue))
		}
		writer.WriteString("\n")
	}

	if len(summary.UnmatchedIDs) > 0 {
		writer.WriteString("Products Without Template:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, id := range summary.UnmatchedIDs {
			writer.WriteString(fmt.Sprintf("  %s\n", id))
		}
		writer.WriteString("\n")
	}

	if len(summary.OutputFiles) > 0 {
		writer.WriteString("Output Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, f := range summary.OutputFiles {
			writer.WriteString(fmt.Sprintf("  %s\n", f))
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
