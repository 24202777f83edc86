package pipeline

import (
	"time"

	"fjacquet/stmt-clean/internal/amountutils"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/report"
)

func (p *Pipeline) buildSummary(res *Result, source string) *report.Summary {
	l := res.Ledger
	s := &report.Summary{
		RunID:             res.RunID,
		Source:            source,
		GeneratedAt:       p.now().UTC().Format(time.RFC3339),
		Rows:              l.Len(),
		BlankRows:         l.BlankCount(),
		InitialDirection:  string(res.Repair.InitialDirection),
		Direction:         string(l.Direction),
		Rotated:           res.Repair.Rotated,
		Verified:          res.Reconcile.Verified,
		AllCorrect:        res.Reconcile.AllCorrect,
		Adjusted:          res.Reconcile.Adjusted,
		MaxDifference:     amountutils.FormatAmount(res.Reconcile.MaxDifference),
		AmountCorrections: res.AmountCorrections,
		DatesLogged:       res.DatesLogged,
		DateCorrections: report.DateCorrections{
			Passes:     res.Repair.Passes,
			Local:      res.Repair.LocalFixes,
			RunFills:   res.Repair.RunFills,
			Sweep:      res.Repair.SweepFixes,
			YearDrift:  res.Repair.YearFixes,
			Unresolved: res.Repair.Unresolved,
		},
	}

	byIndex := make(map[int]models.LedgerRow, l.Len())
	for _, r := range l.Rows {
		byIndex[r.Index] = r
	}
	for _, idx := range res.Reconcile.Mismatches {
		if len(s.Mismatches) == report.MaxMismatches {
			break
		}
		r := byIndex[idx]
		date := ""
		if r.TxnDate.Valid {
			date = r.TxnDate.Parsed
		}
		s.Mismatches = append(s.Mismatches, report.Mismatch{
			Row:        idx + 1,
			Date:       date,
			Debit:      amountutils.FormatNull(r.Debit),
			Credit:     amountutils.FormatNull(r.Credit),
			Balance:    amountutils.FormatNull(r.Balance),
			Difference: amountutils.FormatAmount(r.Difference),
		})
	}

	for _, err := range res.StageErrors {
		s.StageErrors = append(s.StageErrors, err.Error())
	}
	return s
}
