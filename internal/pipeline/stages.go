package pipeline

import (
	"github.com/shopspring/decimal"

	"fjacquet/stmt-clean/internal/amountutils"
	"fjacquet/stmt-clean/internal/config"
	"fjacquet/stmt-clean/internal/dateutils"
	"fjacquet/stmt-clean/internal/models"
)

// normalizeAmounts fills Debit, Credit and Balance on every non-blank row
// and returns how many cells the OCR repair read differently from a plain
// parse.
func normalizeAmounts(l *models.Ledger, debitSign string) int {
	corrections := 0
	for i := range l.Rows {
		r := &l.Rows[i]
		if r.Blank {
			continue
		}

		r.Debit = amountutils.NormalizeNull(r.DebitRaw)
		r.Credit = amountutils.NormalizeNull(r.CreditRaw)
		r.Balance = amountutils.NormalizeNull(r.BalanceRaw)

		for _, c := range []struct {
			raw string
			v   decimal.NullDecimal
		}{{r.DebitRaw, r.Debit}, {r.CreditRaw, r.Credit}, {r.BalanceRaw, r.Balance}} {
			if corrected(c.raw, c.v) {
				corrections++
			}
		}

		if debitSign != config.DebitSignAsIs && r.Debit.Valid {
			r.Debit.Decimal = r.Debit.Decimal.Abs().Neg()
		}
	}
	return corrections
}

func corrected(raw string, v decimal.NullDecimal) bool {
	if raw == "" {
		return false
	}
	naive, ok := amountutils.ExtractAmount(raw)
	if ok != v.Valid {
		return true
	}
	return ok && !naive.Round(2).Equal(v.Decimal)
}

// parseDates fills Parsed and Valid for the transaction and value dates of
// every non-blank row.
func parseDates(l *models.Ledger) {
	for i := range l.Rows {
		r := &l.Rows[i]
		if r.Blank {
			continue
		}
		parseEntry(&r.TxnDate)
		parseEntry(&r.ValueDate)
	}
}

func parseEntry(e *models.DateEntry) {
	e.Parsed, e.Valid = "", false
	parsed, ok := dateutils.Parse(e.Raw)
	if !ok {
		return
	}
	e.Parsed = parsed
	e.Valid = dateutils.IsValid(parsed)
}
