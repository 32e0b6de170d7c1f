// Package export writes analysis results to JSON, CSV or XLSX files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/idelchi/diranalyzer/internal/dirstat"
)

// Format is an export file format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{JSON, CSV, XLSX}
}

// ParseFormat validates name as an export format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case JSON, CSV, XLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be one of %v", name, Formats())
	}
}

// DefaultFilename returns the generated report name for t.
func DefaultFilename(format Format, t time.Time) string {
	return fmt.Sprintf("diranalyzer_report_%s.%s", t.Format("20060102_150405"), format)
}

// Export writes results in the given format to outputPath and returns the
// path written. An empty outputPath generates a timestamped file name in the
// current directory.
func Export(results *dirstat.Results, format Format, outputPath string) (string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = DefaultFilename(format, time.Now())
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	var err error

	switch format {
	case JSON:
		err = writeJSON(results, outputPath)
	case CSV:
		err = writeCSV(results, outputPath)
	case XLSX:
		err = writeXLSX(results, outputPath)
	}

	if err != nil {
		return "", fmt.Errorf("exporting %s to %q: %w", format, outputPath, err)
	}

	return outputPath, nil
}

// timestamp formats an optional modification time.
func timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}
