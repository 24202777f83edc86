package chronology

import (
	"fjacquet/stmt-clean/internal/dateutils"
	"fjacquet/stmt-clean/internal/models"
)

// workspace is a view of a ledger's non-blank rows. Positions k used by the
// repair phases index into pos, so blank rows are invisible to them.
type workspace struct {
	rows []models.LedgerRow
	pos  []int
}

type bound struct {
	date dateutils.Date
	ok   bool
}

func newWorkspace(l *models.Ledger) *workspace {
	w := &workspace{rows: l.Rows}
	for i, r := range l.Rows {
		if !r.Blank {
			w.pos = append(w.pos, i)
		}
	}
	return w
}

func (w *workspace) len() int { return len(w.pos) }

func (w *workspace) row(k int) *models.LedgerRow { return &w.rows[w.pos[k]] }

// date returns the row's transaction date when it is a valid canonical date.
func (w *workspace) date(k int) (dateutils.Date, bool) {
	return entryDate(w.row(k).TxnDate)
}

func (w *workspace) valueDate(k int) (dateutils.Date, bool) {
	return entryDate(w.row(k).ValueDate)
}

func entryDate(e models.DateEntry) (dateutils.Date, bool) {
	if !e.Valid {
		return dateutils.Date{}, false
	}
	return dateutils.ParseCanonical(e.Parsed)
}

func (w *workspace) set(k int, d dateutils.Date) {
	e := &w.row(k).TxnDate
	e.Parsed = d.String()
	e.Valid = true
}

// prev returns the nearest valid date before position k.
func (w *workspace) prev(k int) bound {
	for j := k - 1; j >= 0; j-- {
		if d, ok := w.date(j); ok {
			return bound{date: d, ok: true}
		}
	}
	return bound{}
}

// next returns the nearest valid date after position k.
func (w *workspace) next(k int) bound {
	for j := k + 1; j < len(w.pos); j++ {
		if d, ok := w.date(j); ok {
			return bound{date: d, ok: true}
		}
	}
	return bound{}
}

// inOrder reports whether d may sit between prev and next in direction dir.
// Equal dates are always in order.
func inOrder(d dateutils.Date, prev, next bound, dir models.Direction) bool {
	if dir == models.Descending {
		return (!prev.ok || !d.After(prev.date)) && (!next.ok || !d.Before(next.date))
	}
	return (!prev.ok || !d.Before(prev.date)) && (!next.ok || !d.After(next.date))
}

// step moves d one day forward in dir (backward when dir is descending).
func step(d dateutils.Date, dir models.Direction, n int) dateutils.Date {
	if dir == models.Descending {
		return d.AddDays(-n)
	}
	return d.AddDays(n)
}

func sameBounds(prev, next bound) bool {
	return prev.ok && next.ok && prev.date == next.date
}
