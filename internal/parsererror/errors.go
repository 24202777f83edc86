// Package parsererror holds the typed errors returned across package
// boundaries: table reading, argument validation, reconciliation
// preconditions and contained stage faults.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable is returned when a table holds no header row, either at
// read time or when it reaches the pipeline.
var ErrEmptyTable = errors.New("table has no header row")

// ParseError represents a failure to read a table cell or record
type ParseError struct {
	Reader string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Reader, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a rejected command-line or request argument
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an input file that is not a usable table.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// MissingColumnsError is returned when a ledger lacks columns an operation
// depends on. The ledger is left untouched.
type MissingColumnsError struct {
	Operation string
	Columns   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Operation, strings.Join(e.Columns, ", "))
}

// StageError records a fault contained inside one pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
