package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-clean/internal/changelog"
	"fjacquet/stmt-clean/internal/chronology"
	"fjacquet/stmt-clean/internal/config"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
	"fjacquet/stmt-clean/internal/reconciler"
)

var header = []string{"Date", "Reference", "Narration", "Debit", "Credit", "Balance"}

type panickingRepairer struct{}

func (panickingRepairer) Repair(*models.Ledger) chronology.Stats { panic("index out of range") }

type failingReconciler struct{ err error }

func (f failingReconciler) Reconcile(l *models.Ledger) (reconciler.Result, error) {
	l.Rows[0].Narration = "mutated"
	return reconciler.Result{}, f.err
}

type fakeRecorder struct {
	runID   string
	source  string
	changes []changelog.Change
	err     error
}

func (f *fakeRecorder) Record(runID, source string, changes []changelog.Change) (int, error) {
	f.runID, f.source, f.changes = runID, source, changes
	if f.err != nil {
		return 0, f.err
	}
	return len(changes), nil
}

func newPipeline(logger logging.Logger, rep Repairer, rec Reconciler, recorder ChangeRecorder, sign string) *Pipeline {
	if rep == nil {
		rep = chronology.NewRepairer(logger, chronology.DefaultOptions())
	}
	if rec == nil {
		rec = reconciler.NewReconciler(logger, reconciler.DefaultOptions())
	}
	p := New(logger, rep, rec, recorder, Options{DebitSign: sign})
	p.newID = func() string { return "run-1" }
	return p
}

func descendingTable() models.Table {
	return models.Table{Header: header, Records: [][]string{
		{"05/01/2024", "R3", "fee", "10.00", "", "190.00"},
		{"03/01/2024", "R2", "salary", "", "100.00", "200.00"},
		{"", "", "", "", "", ""},
		{"01/01/2024", "R1", "opening", "", "", "100.00"},
	}}
}

func dates(l *models.Ledger) []string {
	out := make([]string, 0, l.Len())
	for _, r := range l.Rows {
		out = append(out, r.TxnDate.Parsed)
	}
	return out
}

func TestRun_DescendingStatement(t *testing.T) {
	logger := logging.NewMockLogger()
	recorder := &fakeRecorder{}
	p := newPipeline(logger, nil, nil, recorder, config.DebitSignNegative)

	res, err := p.Run(context.Background(), descendingTable(), "jan.csv")
	require.NoError(t, err)
	require.Empty(t, res.StageErrors)

	l := res.Ledger
	require.Equal(t, 4, l.Len())
	assert.Equal(t, models.Ascending, l.Direction)
	assert.True(t, res.Repair.Rotated)
	assert.Equal(t, []string{"01/01/2024", "", "03/01/2024", "05/01/2024"}, dates(l))
	assert.True(t, l.Rows[1].Blank)
	assert.Equal(t, "-10", l.Rows[3].Debit.Decimal.String())

	assert.True(t, res.Reconcile.Verified)
	assert.True(t, res.Reconcile.AllCorrect)
	assert.False(t, res.Reconcile.Adjusted)

	assert.Equal(t, "run-1", recorder.runID)
	assert.Equal(t, "jan.csv", recorder.source)
	assert.Equal(t, changelog.Change{Index: 0, Old: "05/01/2024", New: "05/01/2024"}, recorder.changes[0])
	assert.Equal(t, 4, res.DatesLogged)

	s := res.Summary
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 1, s.BlankRows)
	assert.Equal(t, "descending", s.InitialDirection)
	assert.Equal(t, "ascending", s.Direction)
	assert.Equal(t, "0.00", s.MaxDifference)
	assert.True(t, s.OK())
	assert.True(t, logger.HasEntry("INFO", "Statement cleaned"))
}

func TestRun_DebitSignAsIs(t *testing.T) {
	table := models.Table{Header: header, Records: [][]string{
		{"01/01/2024", "", "", "", "", "100.00"},
		{"02/01/2024", "", "", "-10.00", "", "90.00"},
	}}
	p := newPipeline(logging.NewMockLogger(), nil, nil, nil, config.DebitSignAsIs)

	res, err := p.Run(context.Background(), table, "x.csv")
	require.NoError(t, err)
	assert.Equal(t, "-10", res.Ledger.Rows[1].Debit.Decimal.String())
	assert.True(t, res.Reconcile.AllCorrect)
	assert.Zero(t, res.DatesLogged)
}

func TestRun_CountsAmountCorrections(t *testing.T) {
	table := models.Table{Header: header, Records: [][]string{
		{"01/01/2024", "", "", "", "", "1000.00"},
		{"02/01/2024", "", "", "25O.5", "", "974.50"},
	}}
	p := newPipeline(logging.NewMockLogger(), nil, nil, nil, config.DebitSignNegative)

	res, err := p.Run(context.Background(), table, "x.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, res.AmountCorrections)
	assert.True(t, res.Ledger.Rows[1].Debit.Decimal.Equal(decimal.RequireFromString("-25.5")))
	assert.True(t, res.Reconcile.AllCorrect)
}

func TestRun_PanickingStageKeepsInput(t *testing.T) {
	logger := logging.NewMockLogger()
	p := newPipeline(logger, panickingRepairer{}, nil, nil, config.DebitSignNegative)

	res, err := p.Run(context.Background(), descendingTable(), "jan.csv")
	require.NoError(t, err)
	require.Len(t, res.StageErrors, 1)

	var stageErr *parsererror.StageError
	require.ErrorAs(t, res.StageErrors[0], &stageErr)
	assert.Equal(t, StageRepairChronology, stageErr.Stage)
	assert.Contains(t, stageErr.Error(), "index out of range")

	assert.Equal(t, []string{"05/01/2024", "03/01/2024", "", "01/01/2024"}, dates(res.Ledger))
	assert.True(t, res.Reconcile.Verified)
	assert.False(t, res.Summary.OK())
	assert.Len(t, logger.EntriesByLevel("ERROR"), 1)
}

func TestRun_ReconcilerErrors(t *testing.T) {
	t.Run("generic error is a stage error", func(t *testing.T) {
		p := newPipeline(logging.NewMockLogger(), nil, failingReconciler{err: errors.New("boom")}, nil, config.DebitSignNegative)
		res, err := p.Run(context.Background(), descendingTable(), "jan.csv")
		require.NoError(t, err)
		require.Len(t, res.StageErrors, 1)
		assert.EqualError(t, res.StageErrors[0], "stage reconcile failed: boom")
		assert.Equal(t, "opening", res.Ledger.Rows[0].Narration)
	})

	t.Run("missing columns leave the ledger unverified", func(t *testing.T) {
		table := models.Table{Header: []string{"Date", "Narration"}, Records: [][]string{
			{"01/01/2024", "a"},
			{"02/01/2024", "b"},
		}}
		p := newPipeline(logging.NewMockLogger(), nil, nil, nil, config.DebitSignNegative)
		res, err := p.Run(context.Background(), table, "x.csv")
		require.NoError(t, err)
		assert.Empty(t, res.StageErrors)
		assert.False(t, res.Reconcile.Verified)
		assert.False(t, res.Summary.Verified)
	})
}

func TestRun_RecorderFailure(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	p := newPipeline(logging.NewMockLogger(), nil, nil, recorder, config.DebitSignNegative)

	res, err := p.Run(context.Background(), descendingTable(), "jan.csv")
	require.NoError(t, err)
	require.Len(t, res.StageErrors, 1)
	var stageErr *parsererror.StageError
	require.ErrorAs(t, res.StageErrors[0], &stageErr)
	assert.Equal(t, StageRecordChanges, stageErr.Stage)
	assert.True(t, res.Reconcile.AllCorrect)
}

func TestRun_Rejects(t *testing.T) {
	p := newPipeline(logging.NewMockLogger(), nil, nil, nil, config.DebitSignNegative)

	_, err := p.Run(context.Background(), models.Table{}, "x.csv")
	assert.ErrorIs(t, err, parsererror.ErrEmptyTable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, descendingTable(), "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_SummaryCapsMismatches(t *testing.T) {
	records := [][]string{{"01/01/2024", "", "", "", "", "100.00"}}
	for d := 2; d <= 7; d++ {
		records = append(records, []string{fmt.Sprintf("%02d/01/2024", d), "", "", "", "10.00", "0.00"})
	}
	p := newPipeline(logging.NewMockLogger(), nil, nil, nil, config.DebitSignNegative)

	res, err := p.Run(context.Background(), models.Table{Header: header, Records: records}, "x.csv")
	require.NoError(t, err)

	assert.Len(t, res.Reconcile.Mismatches, 6)
	assert.False(t, res.Reconcile.Adjusted)
	s := res.Summary
	require.Len(t, s.Mismatches, 5)
	assert.Equal(t, 2, s.Mismatches[0].Row)
	assert.Equal(t, "02/01/2024", s.Mismatches[0].Date)
	assert.Equal(t, "110.00", s.Mismatches[0].Difference)
	assert.Equal(t, "110.00", s.MaxDifference)
}
