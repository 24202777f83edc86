// Package validation checks command arguments before any file is read.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/stmt-clean/internal/parsererror"
	"fjacquet/stmt-clean/internal/report"
	"fjacquet/stmt-clean/internal/tableio"
)

// InputFile checks that path is an existing regular file with a supported
// table extension.
func InputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "input file is required"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "file does not exist"}
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a regular file"}
	}
	if !tableio.IsSupported(path) {
		return &parsererror.ValidationError{
			FilePath: path,
			Reason:   fmt.Sprintf("unsupported extension %q, expected .csv or .xlsx", filepath.Ext(path)),
		}
	}
	return nil
}

// InputDir checks that path is an existing directory.
func InputDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "input directory is required"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &parsererror.ValidationError{FilePath: path, Reason: "directory does not exist"}
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() {
		return &parsererror.ValidationError{FilePath: path, Reason: "not a directory"}
	}
	return nil
}

// OutputFile checks that path names a .csv file.
func OutputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &parsererror.ValidationError{FilePath: path, Reason: "output file is required"}
	}
	if !strings.EqualFold(filepath.Ext(path), tableio.ExtCSV) {
		return &parsererror.ValidationError{FilePath: path, Reason: "output must be a .csv file"}
	}
	return nil
}

// ReportFormat checks that format is empty (no report) or a supported
// report format.
func ReportFormat(format string) error {
	if format == "" || report.IsSupportedFormat(format) {
		return nil
	}
	return fmt.Errorf("unsupported report format: %s. Supported formats are %s",
		format, strings.Join(report.Formats, ", "))
}
