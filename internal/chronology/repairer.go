// Package chronology restores a plausible, monotonic date sequence to a
// statement ledger whose dates came out of OCR damaged, missing or out of
// order.
//
// Repair runs six phases over the non-blank rows: direction inference,
// a bounded local repair loop, gap filling for runs of rows without a valid
// date, a final monotonicity sweep, rotation of descending statements into
// ascending order, and year-drift correction. Blank rows never take part
// and never receive a date.
package chronology

import (
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
)

// valueDateWindowDays bounds how far a year-corrected date may sit from the
// row's value date for the value date to vouch for the new year.
const valueDateWindowDays = 31

// Options holds the tunable limits of the repair.
type Options struct {
	// MaxPasses bounds the local repair loop.
	MaxPasses int
	// MidpointMaxGapDays is the widest neighbour gap still filled with its
	// midpoint; wider gaps get a one-day step instead.
	MidpointMaxGapDays int
	// YearDriftMax is the largest year difference repaired by borrowing a
	// neighbour's year for an out-of-order date. Zero disables it.
	YearDriftMax int
}

// DefaultOptions returns the standard limits: 5 passes, 100 days, 5 years.
func DefaultOptions() Options {
	return Options{MaxPasses: 5, MidpointMaxGapDays: 100, YearDriftMax: 5}
}

// Stats reports what one Repair call changed.
type Stats struct {
	InitialDirection models.Direction `json:"initial_direction" yaml:"initial_direction" xml:"initial_direction"`
	Direction        models.Direction `json:"direction" yaml:"direction" xml:"direction"`
	Rotated          bool             `json:"rotated" yaml:"rotated" xml:"rotated"`
	Passes           int              `json:"passes" yaml:"passes" xml:"passes"`
	LocalFixes       int              `json:"local_fixes" yaml:"local_fixes" xml:"local_fixes"`
	RunFills         int              `json:"run_fills" yaml:"run_fills" xml:"run_fills"`
	Unresolved       int              `json:"unresolved" yaml:"unresolved" xml:"unresolved"`
	SweepFixes       int              `json:"sweep_fixes" yaml:"sweep_fixes" xml:"sweep_fixes"`
	YearFixes        int              `json:"year_fixes" yaml:"year_fixes" xml:"year_fixes"`
}

// Corrections is the number of date cells the repair rewrote.
func (s Stats) Corrections() int {
	return s.LocalFixes + s.RunFills + s.SweepFixes + s.YearFixes
}

// Repairer runs the chronology repair over ledgers.
type Repairer struct {
	logger logging.Logger
	opts   Options
}

// NewRepairer creates a Repairer. Non-positive limits fall back to the
// defaults.
func NewRepairer(logger logging.Logger, opts Options) *Repairer {
	def := DefaultOptions()
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = def.MaxPasses
	}
	if opts.MidpointMaxGapDays <= 0 {
		opts.MidpointMaxGapDays = def.MidpointMaxGapDays
	}
	if opts.YearDriftMax < 0 {
		opts.YearDriftMax = def.YearDriftMax
	}
	return &Repairer{logger: logger, opts: opts}
}

// Repair rewrites the transaction dates of l in place and leaves it in
// ascending order. Row payloads are only ever moved as a whole, by the
// rotation of a descending ledger. Running Repair on its own output changes
// nothing.
func (r *Repairer) Repair(l *models.Ledger) Stats {
	w := newWorkspace(l)

	dir := inferDirection(w)
	stats := Stats{InitialDirection: dir}
	r.logger.Debug("Inferred ledger direction",
		logging.Field{Key: logging.FieldDirection, Value: string(dir)},
		logging.Field{Key: logging.FieldCount, Value: w.len()})

	stats.LocalFixes, stats.YearFixes, stats.Passes = r.localRepair(w, dir)
	stats.RunFills, stats.Unresolved = r.fillRuns(w, dir)
	stats.SweepFixes = r.sweep(w, dir)

	// rotation follows the order the repaired dates show, which can differ
	// from the inferred one once repairs collapse them to a single day
	if inferDirection(w) == models.Descending {
		l.Reverse()
		w = newWorkspace(l)
		stats.Rotated = true
		if after := inferDirection(w); after != models.Ascending {
			r.logger.Warn("Ledger still not ascending after rotation",
				logging.Field{Key: logging.FieldDirection, Value: string(after)})
		}
	}
	l.Direction = models.Ascending
	stats.Direction = models.Ascending

	stats.YearFixes += r.fixYearDrift(w)

	r.logger.Info("Chronology repaired",
		logging.Field{Key: "local_fixes", Value: stats.LocalFixes},
		logging.Field{Key: "run_fills", Value: stats.RunFills},
		logging.Field{Key: "sweep_fixes", Value: stats.SweepFixes},
		logging.Field{Key: "year_fixes", Value: stats.YearFixes},
		logging.Field{Key: "unresolved", Value: stats.Unresolved},
		logging.Field{Key: "rotated", Value: stats.Rotated})
	return stats
}
