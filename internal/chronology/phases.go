package chronology

import (
	"fjacquet/stmt-clean/internal/dateutils"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
)

// localRepair fixes valid dates that break the order with their nearest
// valid neighbours. A candidate is the shared neighbour date, else the
// row's value date, else the same day and month in a neighbour's year,
// else a synthesized date; it is applied only if it is a valid date that
// itself sits in order. Year-only corrections are counted apart from the
// other fixes. Stops after a pass with no change.
func (r *Repairer) localRepair(w *workspace, dir models.Direction) (fixes, yearFixes, passes int) {
	for pass := 1; pass <= r.opts.MaxPasses; pass++ {
		passes = pass
		changed := 0
		for k := 0; k < w.len(); k++ {
			cur, ok := w.date(k)
			if !ok {
				continue
			}
			prev, next := w.prev(k), w.next(k)
			if inOrder(cur, prev, next, dir) {
				continue
			}

			cand, yearOnly, ok := r.localCandidate(w, k, cur, prev, next, dir)
			if !ok || cand == cur || !cand.Valid() || !inOrder(cand, prev, next, dir) {
				continue
			}
			msg := "Out-of-order date corrected"
			if yearOnly {
				msg = "Year drift corrected"
				yearFixes++
			} else {
				fixes++
			}
			r.logger.Debug(msg,
				logging.Field{Key: logging.FieldRow, Value: w.row(k).Index},
				logging.Field{Key: logging.FieldPass, Value: pass},
				logging.Field{Key: "old", Value: cur.String()},
				logging.Field{Key: "new", Value: cand.String()})
			w.set(k, cand)
			changed++
		}
		if changed == 0 {
			break
		}
	}
	return fixes, yearFixes, passes
}

// localCandidate picks the replacement for an out-of-order date. yearOnly
// is set when only the year was taken from a neighbour.
func (r *Repairer) localCandidate(w *workspace, k int, cur dateutils.Date, prev, next bound, dir models.Direction) (cand dateutils.Date, yearOnly, ok bool) {
	if sameBounds(prev, next) {
		return prev.date, false, true
	}
	if vd, ok := w.valueDate(k); ok && inOrder(vd, prev, next, dir) {
		return vd, false, true
	}
	if c, ok := r.driftCandidate(cur, prev, next, dir); ok {
		return c, true, true
	}

	switch {
	case prev.ok && next.ok:
		// gap is measured forward in time between the two neighbours
		gap := prev.date.DaysUntil(next.date)
		if dir == models.Descending {
			gap = -gap
		}
		if gap > 0 && gap <= r.opts.MidpointMaxGapDays {
			return step(prev.date, dir, gap/2), false, true
		}
		return step(prev.date, dir, 1), false, true
	case prev.ok:
		return step(prev.date, dir, 1), false, true
	case next.ok:
		return step(next.date, dir, -1), false, true
	}
	return dateutils.Date{}, false, false
}

// driftCandidate keeps the day and month of cur and borrows the year of the
// previous or next valid date, when the years differ by at most
// YearDriftMax and the result sits in order.
func (r *Repairer) driftCandidate(cur dateutils.Date, prev, next bound, dir models.Direction) (dateutils.Date, bool) {
	for _, b := range []bound{prev, next} {
		if !b.ok || b.date.Year == cur.Year {
			continue
		}
		drift := b.date.Year - cur.Year
		if drift < 0 {
			drift = -drift
		}
		if drift > r.opts.YearDriftMax {
			continue
		}
		if c := cur.WithYear(b.date.Year); c.Valid() && inOrder(c, prev, next, dir) {
			return c, true
		}
	}
	return dateutils.Date{}, false
}

// fillRuns assigns dates to rows without a valid one. Such rows are grouped
// into runs of consecutive non-blank positions. Inside a run, each row first
// tries its own value date, then the shared-neighbour rule; whatever is
// left is spread evenly between the nearest valid dates around it, or
// stepped one day at a time away from the only bound there is. A run with
// no valid date on either side stays unresolved.
func (r *Repairer) fillRuns(w *workspace, dir models.Direction) (filled, unresolved int) {
	for _, run := range w.invalidRuns(0, w.len()-1) {
		for k := run[0]; k <= run[1]; k++ {
			vd, ok := w.valueDate(k)
			if ok && inOrder(vd, w.prev(k), w.next(k), dir) {
				w.set(k, vd)
				filled++
			}
		}

		for k := run[0]; k <= run[1]; k++ {
			if _, ok := w.date(k); ok {
				continue
			}
			if prev, next := w.prev(k), w.next(k); sameBounds(prev, next) {
				w.set(k, prev.date)
				filled++
			}
		}

		for _, sub := range w.invalidRuns(run[0], run[1]) {
			n := sub[1] - sub[0] + 1
			dates := interpolate(w.prev(sub[0]), w.next(sub[1]), n, dir)
			if dates == nil {
				unresolved += n
				r.logger.Debug("Run left without dates",
					logging.Field{Key: logging.FieldRow, Value: w.row(sub[0]).Index},
					logging.Field{Key: logging.FieldCount, Value: n})
				continue
			}
			for i, d := range dates {
				if !d.Valid() {
					unresolved++
					continue
				}
				w.set(sub[0]+i, d)
				filled++
			}
		}
	}
	return filled, unresolved
}

// invalidRuns returns [start, end] position pairs of consecutive rows in
// [from, to] that lack a valid date.
func (w *workspace) invalidRuns(from, to int) [][2]int {
	var runs [][2]int
	start := -1
	for k := from; k <= to; k++ {
		if _, ok := w.date(k); !ok {
			if start < 0 {
				start = k
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, [2]int{start, k - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, to})
	}
	return runs
}

// interpolate produces n dates for a run bounded by before and after.
func interpolate(before, after bound, n int, dir models.Direction) []dateutils.Date {
	out := make([]dateutils.Date, n)
	switch {
	case before.ok && after.ok:
		total := before.date.DaysUntil(after.date)
		if dir == models.Descending {
			total = -total
		}
		for i := range out {
			if total > 0 {
				out[i] = step(before.date, dir, (i+1)*total/(n+1))
			} else {
				out[i] = step(before.date, dir, i+1)
			}
		}
	case before.ok:
		for i := range out {
			out[i] = step(before.date, dir, i+1)
		}
	case after.ok:
		for i := range out {
			out[i] = step(after.date, dir, -(n - i))
		}
	default:
		return nil
	}
	return out
}

// sweep is the last ordering pass. Walking forward, every valid date that
// still breaks the order is rebuilt from its already-checked predecessor,
// so the valid dates come out monotonic in dir.
func (r *Repairer) sweep(w *workspace, dir models.Direction) int {
	fixes := 0
	for k := 0; k < w.len(); k++ {
		cur, ok := w.date(k)
		if !ok {
			continue
		}
		prev, next := w.prev(k), w.next(k)
		if inOrder(cur, prev, next, dir) {
			continue
		}

		var cand dateutils.Date
		switch {
		case sameBounds(prev, next):
			cand = prev.date
		case prev.ok:
			cand = step(prev.date, dir, 1)
			if !cand.Valid() || !inOrder(cand, prev, next, dir) {
				cand = prev.date
			}
		default:
			cand = step(next.date, dir, -1)
			if !cand.Valid() {
				cand = next.date
			}
		}
		if cand == cur {
			continue
		}
		r.logger.Debug("Residual order violation corrected",
			logging.Field{Key: logging.FieldRow, Value: w.row(k).Index},
			logging.Field{Key: "old", Value: cur.String()},
			logging.Field{Key: "new", Value: cand.String()})
		w.set(k, cand)
		fixes++
	}
	return fixes
}

// fixYearDrift repairs dates that are in order but whose year disagrees
// with the row's value date. The value date supplies the year when the
// result stays in order and lands within valueDateWindowDays of it.
// Out-of-order year misreads are already handled by localRepair. Runs
// until a pass changes nothing.
func (r *Repairer) fixYearDrift(w *workspace) int {
	fixes := 0
	for pass := 0; pass <= w.len(); pass++ {
		changed := 0
		for k := 0; k < w.len(); k++ {
			cur, ok := w.date(k)
			if !ok {
				continue
			}
			prev, next := w.prev(k), w.next(k)

			cand, ok := r.yearCandidate(w, k, cur, prev, next)
			if !ok {
				continue
			}
			r.logger.Debug("Year drift corrected",
				logging.Field{Key: logging.FieldRow, Value: w.row(k).Index},
				logging.Field{Key: "old", Value: cur.String()},
				logging.Field{Key: "new", Value: cand.String()})
			w.set(k, cand)
			changed++
		}
		fixes += changed
		if changed == 0 {
			break
		}
	}
	return fixes
}

func (r *Repairer) yearCandidate(w *workspace, k int, cur dateutils.Date, prev, next bound) (dateutils.Date, bool) {
	vd, ok := w.valueDate(k)
	if !ok || vd.Year == cur.Year {
		return dateutils.Date{}, false
	}
	c := cur.WithYear(vd.Year)
	lag := c.DaysUntil(vd)
	if lag < 0 {
		lag = -lag
	}
	if lag > valueDateWindowDays || !c.Valid() || !inOrder(c, prev, next, models.Ascending) {
		return dateutils.Date{}, false
	}
	return c, true
}
