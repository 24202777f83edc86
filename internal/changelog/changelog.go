// Package changelog keeps an append-only CSV audit trail of the date
// rewrites made while cleaning statements.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
)

// FileName is the log file created inside the configured directory.
const FileName = "date_log.csv"

const timestampLayout = "2006-01-02 15:04:05"

// Entry is one line of the change log.
type Entry struct {
	RunID     string `csv:"Run_ID"`
	FileName  string `csv:"File_Name"`
	RowIndex  int    `csv:"Row_Index"`
	OldDate   string `csv:"Old_Date"`
	NewDate   string `csv:"New_Date"`
	Changed   bool   `csv:"Changed"`
	Timestamp string `csv:"Timestamp"`
}

// Change pairs a row's source position with its date before and after
// cleaning.
type Change struct {
	Index int
	Old   string
	New   string
}

// Recorder appends change entries to <dir>/date_log.csv. A disabled
// Recorder accepts every call and writes nothing.
type Recorder struct {
	dir     string
	enabled bool
	logger  logging.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewRecorder creates a Recorder writing under dir.
func NewRecorder(dir string, enabled bool, logger logging.Logger) *Recorder {
	return &Recorder{
		dir:     dir,
		enabled: enabled,
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether the recorder writes anything.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// Path returns the log file location.
func (r *Recorder) Path() string {
	return filepath.Join(r.dir, FileName)
}

// ChangesFor pairs each row's raw date with its final canonical date, in
// source order. before maps source index to the raw token.
func ChangesFor(before map[int]string, after *models.Ledger) []Change {
	order, final := after.DatesBySourceIndex()
	changes := make([]Change, 0, len(order))
	for _, idx := range order {
		changes = append(changes, Change{Index: idx, Old: before[idx], New: final[idx]})
	}
	return changes
}

// Record appends one entry per change where either side is non-empty,
// stamped with runID, and returns how many were written. Existing lines are
// never rewritten.
func (r *Recorder) Record(runID, source string, changes []Change) (int, error) {
	if !r.Enabled() {
		return 0, nil
	}

	stamp := r.now().Format(timestampLayout)
	base := filepath.Base(source)

	entries := make([]*Entry, 0, len(changes))
	for _, c := range changes {
		if c.Old == "" && c.New == "" {
			continue
		}
		entries = append(entries, &Entry{
			RunID:     runID,
			FileName:  base,
			RowIndex:  c.Index + 1,
			OldDate:   c.Old,
			NewDate:   c.New,
			Changed:   c.Old != c.New,
			Timestamp: stamp,
		})
	}
	if len(entries) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, models.PermissionDirectory); err != nil {
		return 0, fmt.Errorf("failed to create change log directory %s: %w", r.dir, err)
	}

	f, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, models.PermissionReportFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open change log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.WithError(cerr).Warn("Failed to close change log")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat change log: %w", err)
	}
	if info.Size() == 0 {
		err = gocsv.Marshal(entries, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(entries, f)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to append change log: %w", err)
	}

	r.logger.Info("Date changes logged",
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldFile, Value: r.Path()},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return len(entries), nil
}

// ReadLog loads every entry of a change log file.
func ReadLog(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open change log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		return nil, fmt.Errorf("failed to read change log: %w", err)
	}
	return entries, nil
}
