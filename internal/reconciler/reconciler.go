// Package reconciler verifies the running-balance identity of a statement
// ledger and absorbs small OCR rounding drift in the printed balances.
package reconciler

import (
	"github.com/shopspring/decimal"

	"fjacquet/stmt-clean/internal/amountutils"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
)

// Options holds the reconciliation thresholds.
type Options struct {
	// AdjustBand is the exclusive bound on |difference| under which every
	// row must fall for the balances to be recomputed.
	AdjustBand decimal.Decimal
	// Tolerance is the largest |difference| still counted as correct.
	Tolerance decimal.Decimal
}

// DefaultOptions returns a band of 1.00 and a tolerance of 0.001.
func DefaultOptions() Options {
	return Options{
		AdjustBand: decimal.NewFromInt(1),
		Tolerance:  decimal.RequireFromString("0.001"),
	}
}

// Result summarises one reconciliation.
type Result struct {
	// Verified is false when the ledger lacked the columns to reconcile.
	Verified bool `json:"verified" yaml:"verified" xml:"verified"`
	// AllCorrect is true when every row's difference is within tolerance.
	AllCorrect bool `json:"all_correct" yaml:"all_correct" xml:"all_correct"`
	// Adjusted is true when balances were recomputed from the first row.
	Adjusted bool `json:"adjusted" yaml:"adjusted" xml:"adjusted"`
	// MaxDifference is the largest absolute difference left.
	MaxDifference decimal.Decimal `json:"max_difference" yaml:"max_difference" xml:"max_difference"`
	// Mismatches are the source indexes of rows outside tolerance.
	Mismatches []int `json:"mismatches,omitempty" yaml:"mismatches,omitempty" xml:"mismatches>row,omitempty"`
}

// Reconciler checks AdjustedBalance[prev] + Credit + Debit == Balance row
// by row. Debit is expected to carry its own sign.
type Reconciler struct {
	logger logging.Logger
	opts   Options
}

// NewReconciler creates a Reconciler with the given thresholds.
func NewReconciler(logger logging.Logger, opts Options) *Reconciler {
	return &Reconciler{logger: logger, opts: opts}
}

// Reconcile fills AdjustedBalance and Difference on every non-blank row.
//
// The first non-blank row seeds the chain and has a zero difference. Each
// later row gets Difference = round(AdjustedBalance[prev] + Credit + Debit
// - Balance, 2), absent amounts counting as zero. When there is more than
// one row, every difference lies strictly inside the adjust band and at
// least one is non-zero, the balances are rebuilt forward from the seed and
// the differences become zero. Blank rows are skipped by the chain.
//
// A ledger without Debit, Credit or Balance is returned untouched with
// Verified false and a *parsererror.MissingColumnsError.
func (r *Reconciler) Reconcile(l *models.Ledger) (Result, error) {
	missing := l.MissingColumns(models.ColumnDebit, models.ColumnCredit, models.ColumnBalance)
	if len(missing) > 0 {
		r.logger.Warn("Skipping reconciliation, ledger lacks amount columns",
			logging.Field{Key: logging.FieldOperation, Value: "reconcile"},
			logging.Field{Key: "missing", Value: missing})
		return Result{}, &parsererror.MissingColumnsError{Operation: "reconcile", Columns: missing}
	}

	rows := nonBlank(l)
	if len(rows) == 0 {
		return Result{Verified: true, AllCorrect: true}, nil
	}

	for _, i := range rows {
		l.Rows[i].AdjustedBalance = l.Rows[i].Balance
		if l.Rows[i].Balance.Valid {
			l.Rows[i].AdjustedBalance.Decimal = l.Rows[i].Balance.Decimal.Round(2)
		}
	}
	r.computeDifferences(l, rows)

	res := Result{Verified: true}
	if len(rows) > 1 && r.withinBand(l, rows) && !r.allZero(l, rows) {
		r.rebuildBalances(l, rows)
		r.computeDifferences(l, rows)
		res.Adjusted = true
		r.logger.Info("Balances adjusted for rounding drift",
			logging.Field{Key: logging.FieldCount, Value: len(rows)})
	}

	res.AllCorrect = true
	res.MaxDifference = decimal.Zero
	for _, i := range rows {
		diff := l.Rows[i].Difference.Abs()
		if diff.GreaterThan(res.MaxDifference) {
			res.MaxDifference = diff
		}
		if diff.GreaterThan(r.opts.Tolerance) {
			res.AllCorrect = false
			res.Mismatches = append(res.Mismatches, l.Rows[i].Index)
		}
	}

	if res.AllCorrect {
		r.logger.Info("All balances reconcile",
			logging.Field{Key: "adjusted", Value: res.Adjusted})
	} else {
		r.logger.Warn("Balances do not reconcile",
			logging.Field{Key: logging.FieldCount, Value: len(res.Mismatches)},
			logging.Field{Key: "max_difference", Value: res.MaxDifference.StringFixed(2)})
	}
	return res, nil
}

func nonBlank(l *models.Ledger) []int {
	var out []int
	for i, row := range l.Rows {
		if !row.Blank {
			out = append(out, i)
		}
	}
	return out
}

func movement(row models.LedgerRow) decimal.Decimal {
	return amountutils.Round2(row.Credit).Add(amountutils.Round2(row.Debit))
}

func (r *Reconciler) computeDifferences(l *models.Ledger, rows []int) {
	l.Rows[rows[0]].Difference = decimal.Zero
	for n := 1; n < len(rows); n++ {
		prev, cur := &l.Rows[rows[n-1]], &l.Rows[rows[n]]
		expected := amountutils.Round2(prev.AdjustedBalance).Add(movement(*cur))
		cur.Difference = expected.Sub(amountutils.Round2(cur.AdjustedBalance)).Round(2)
	}
}

func (r *Reconciler) withinBand(l *models.Ledger, rows []int) bool {
	for _, i := range rows {
		if l.Rows[i].Difference.Abs().GreaterThanOrEqual(r.opts.AdjustBand) {
			return false
		}
	}
	return true
}

func (r *Reconciler) allZero(l *models.Ledger, rows []int) bool {
	for _, i := range rows {
		if !l.Rows[i].Difference.IsZero() {
			return false
		}
	}
	return true
}

// rebuildBalances recomputes every balance after the seed from the
// movements alone.
func (r *Reconciler) rebuildBalances(l *models.Ledger, rows []int) {
	for n := 1; n < len(rows); n++ {
		prev, cur := &l.Rows[rows[n-1]], &l.Rows[rows[n]]
		cur.AdjustedBalance = decimal.NewNullDecimal(amountutils.Round2(prev.AdjustedBalance).Add(movement(*cur)).Round(2))
	}
}
