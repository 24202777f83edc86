// Package pipeline sequences the cleaning stages over one statement table.
//
// Every stage runs on a clone of the ledger. A stage that returns an error
// or panics is logged and recorded as a *parsererror.StageError, and its
// input passes through to the next stage unchanged.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fjacquet/stmt-clean/internal/changelog"
	"fjacquet/stmt-clean/internal/chronology"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
	"fjacquet/stmt-clean/internal/reconciler"
	"fjacquet/stmt-clean/internal/report"
)

// Stage names used in logs and StageErrors.
const (
	StageNormalizeAmounts = "normalize-amounts"
	StageParseDates       = "parse-dates"
	StageRepairChronology = "repair-chronology"
	StageReconcile        = "reconcile"
	StageRecordChanges    = "record-changes"
)

// Repairer restores chronological order to a ledger's dates.
type Repairer interface {
	Repair(l *models.Ledger) chronology.Stats
}

// Reconciler verifies and adjusts running balances.
type Reconciler interface {
	Reconcile(l *models.Ledger) (reconciler.Result, error)
}

// ChangeRecorder persists the date changes of a run.
type ChangeRecorder interface {
	Record(runID, source string, changes []changelog.Change) (int, error)
}

// Options holds pipeline-level settings.
type Options struct {
	// DebitSign is "negative" to store debits as negative contributions or
	// "as-is" to keep the sign found in the source.
	DebitSign string
}

// Result is the outcome of one run.
type Result struct {
	RunID             string
	Ledger            *models.Ledger
	Repair            chronology.Stats
	Reconcile         reconciler.Result
	AmountCorrections int
	DatesLogged       int
	StageErrors       []error
	Summary           *report.Summary
}

// Pipeline runs the cleaning stages in order.
type Pipeline struct {
	logger     logging.Logger
	repairer   Repairer
	reconciler Reconciler
	recorder   ChangeRecorder
	opts       Options

	now   func() time.Time
	newID func() string
}

// New creates a Pipeline. recorder may be nil, in which case no change log
// is written.
func New(logger logging.Logger, repairer Repairer, rec Reconciler, recorder ChangeRecorder, opts Options) *Pipeline {
	return &Pipeline{
		logger:     logger,
		repairer:   repairer,
		reconciler: rec,
		recorder:   recorder,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Run cleans one table. Stage faults never fail the run; only an empty
// table or a cancelled context does.
func (p *Pipeline) Run(ctx context.Context, table models.Table, source string) (*Result, error) {
	if len(table.Header) == 0 {
		return nil, parsererror.ErrEmptyTable
	}

	res := &Result{RunID: p.newID()}
	log := p.logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: res.RunID},
		logging.Field{Key: logging.FieldFile, Value: source})

	ledger := models.NewLedger(table, source)
	log.Info("Ledger ingested",
		logging.Field{Key: logging.FieldCount, Value: ledger.Len()},
		logging.Field{Key: "blank_rows", Value: ledger.BlankCount()})

	rawDates := make(map[int]string, ledger.Len())
	for _, r := range ledger.Rows {
		rawDates[r.Index] = r.TxnDate.Raw
	}

	stages := []struct {
		name string
		run  func(*models.Ledger) error
	}{
		{StageNormalizeAmounts, func(l *models.Ledger) error {
			res.AmountCorrections = normalizeAmounts(l, p.opts.DebitSign)
			return nil
		}},
		{StageParseDates, func(l *models.Ledger) error {
			parseDates(l)
			return nil
		}},
		{StageRepairChronology, func(l *models.Ledger) error {
			res.Repair = p.repairer.Repair(l)
			return nil
		}},
		{StageReconcile, func(l *models.Ledger) error {
			out, err := p.reconciler.Reconcile(l)
			var missing *parsererror.MissingColumnsError
			if errors.As(err, &missing) {
				log.Warn("Balances not verified", logging.Field{Key: logging.FieldError, Value: err.Error()})
				res.Reconcile = out
				return nil
			}
			if err != nil {
				return err
			}
			res.Reconcile = out
			return nil
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before %s: %w", s.name, err)
		}
		ledger = p.runStage(log, s.name, ledger, s.run, res)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled before %s: %w", StageRecordChanges, err)
	}
	if p.recorder != nil {
		changes := changelog.ChangesFor(rawDates, ledger)
		_ = p.runStage(log, StageRecordChanges, ledger, func(l *models.Ledger) error {
			n, err := p.recorder.Record(res.RunID, source, changes)
			res.DatesLogged = n
			return err
		}, res)
	}

	res.Ledger = ledger
	res.Summary = p.buildSummary(res, source)
	log.Info("Statement cleaned",
		logging.Field{Key: logging.FieldStatus, Value: statusOf(res.Summary)},
		logging.Field{Key: "stage_errors", Value: len(res.StageErrors)})
	return res, nil
}

// runStage executes fn on a clone of in. On error or panic the clone is
// discarded and in is returned.
func (p *Pipeline) runStage(log logging.Logger, name string, in *models.Ledger, fn func(*models.Ledger) error, res *Result) *models.Ledger {
	start := p.now()
	work := in.Clone()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn(work)
	}()

	if err != nil {
		stageErr := &parsererror.StageError{Stage: name, Err: err}
		res.StageErrors = append(res.StageErrors, stageErr)
		log.WithError(err).Error("Stage failed, keeping its input",
			logging.Field{Key: logging.FieldStage, Value: name})
		return in
	}

	log.Debug("Stage completed",
		logging.Field{Key: logging.FieldStage, Value: name},
		logging.Field{Key: logging.FieldDuration, Value: p.now().Sub(start).Milliseconds()})
	return work
}

func statusOf(s *report.Summary) string {
	if s.OK() {
		return "ok"
	}
	return "needs-review"
}
