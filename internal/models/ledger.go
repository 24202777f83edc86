package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Direction is the chronological orientation of a ledger's dates.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// DateEntry is the per-row date record. Parsed holds the parser output
// ("" when the raw token was unparseable); Valid is true only when Parsed is
// a real calendar date in the canonical layout.
type DateEntry struct {
	Index  int    `json:"index" yaml:"index"`
	Raw    string `json:"raw" yaml:"raw"`
	Parsed string `json:"parsed" yaml:"parsed"`
	Valid  bool   `json:"valid" yaml:"valid"`
}

// LedgerRow is one transaction line. Index is the row's position in the
// source table and survives rotation, so it identifies the row across
// stages. Absent amounts are represented by an invalid NullDecimal.
type LedgerRow struct {
	Index int  `json:"index" yaml:"index"`
	Blank bool `json:"blank" yaml:"blank"`

	Reference string `json:"reference" yaml:"reference"`
	Narration string `json:"narration" yaml:"narration"`

	DebitRaw   string `json:"debit_raw" yaml:"debit_raw"`
	CreditRaw  string `json:"credit_raw" yaml:"credit_raw"`
	BalanceRaw string `json:"balance_raw" yaml:"balance_raw"`

	Debit           decimal.NullDecimal `json:"debit" yaml:"debit"`
	Credit          decimal.NullDecimal `json:"credit" yaml:"credit"`
	Balance         decimal.NullDecimal `json:"balance" yaml:"balance"`
	AdjustedBalance decimal.NullDecimal `json:"adjusted_balance" yaml:"adjusted_balance"`
	Difference      decimal.Decimal     `json:"difference" yaml:"difference"`

	TxnDate   DateEntry `json:"date" yaml:"date"`
	ValueDate DateEntry `json:"value_date" yaml:"value_date"`

	// Extra holds the cells of non-canonical columns, aligned with
	// Ledger.ExtraHeader.
	Extra []string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Ledger is the ordered row sequence of one statement plus ledger-level
// state. Rows are never added or removed after construction; the only
// reordering allowed is Reverse.
type Ledger struct {
	Source      string          `json:"source" yaml:"source"`
	Rows        []LedgerRow     `json:"rows" yaml:"rows"`
	Direction   Direction       `json:"direction" yaml:"direction"`
	Columns     map[string]bool `json:"-" yaml:"-"`
	ExtraHeader []string        `json:"extra_header,omitempty" yaml:"extra_header,omitempty"`
}

// NewLedger binds every record of the table to a LedgerRow. Only raw text
// is copied; normalization and date parsing are separate stages.
func NewLedger(table Table, source string) *Ledger {
	l := &Ledger{
		Source:    source,
		Direction: Ascending,
		Columns:   make(map[string]bool),
		Rows:      make([]LedgerRow, 0, len(table.Records)),
	}

	idx := make(map[string]int, len(CanonicalColumns))
	for _, name := range CanonicalColumns {
		i := table.ColumnIndex(name)
		idx[name] = i
		if i >= 0 {
			l.Columns[name] = true
		}
	}

	canonical := make(map[int]bool)
	for _, i := range idx {
		if i >= 0 {
			canonical[i] = true
		}
	}
	var extraCols []int
	for i, h := range table.Header {
		if !canonical[i] {
			extraCols = append(extraCols, i)
			l.ExtraHeader = append(l.ExtraHeader, h)
		}
	}

	for n, rec := range table.Records {
		row := LedgerRow{
			Index:      n,
			Blank:      IsBlankRecord(rec),
			Reference:  Cell(rec, idx[ColumnReference]),
			Narration:  Cell(rec, idx[ColumnNarration]),
			DebitRaw:   Cell(rec, idx[ColumnDebit]),
			CreditRaw:  Cell(rec, idx[ColumnCredit]),
			BalanceRaw: Cell(rec, idx[ColumnBalance]),
			TxnDate:    DateEntry{Index: n, Raw: Cell(rec, idx[ColumnDate])},
			ValueDate:  DateEntry{Index: n, Raw: Cell(rec, idx[ColumnValueDate])},
		}
		for _, c := range extraCols {
			row.Extra = append(row.Extra, Cell(rec, c))
		}
		l.Rows = append(l.Rows, row)
	}

	return l
}

// MissingColumns returns the names among required that the ledger's source
// table did not carry, in the order given.
func (l *Ledger) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !l.Columns[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Len returns the number of rows, blank rows included.
func (l *Ledger) Len() int {
	return len(l.Rows)
}

// BlankCount returns the number of blank rows.
func (l *Ledger) BlankCount() int {
	n := 0
	for _, r := range l.Rows {
		if r.Blank {
			n++
		}
	}
	return n
}

// Reverse reverses the row order in place. Each row moves as a unit, so
// dates stay bound to their amounts.
func (l *Ledger) Reverse() {
	for i, j := 0, len(l.Rows)-1; i < j; i, j = i+1, j-1 {
		l.Rows[i], l.Rows[j] = l.Rows[j], l.Rows[i]
	}
}

// Clone returns a deep copy so a stage can work on it and be discarded.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Source:      l.Source,
		Direction:   l.Direction,
		Columns:     make(map[string]bool, len(l.Columns)),
		ExtraHeader: append([]string(nil), l.ExtraHeader...),
		Rows:        make([]LedgerRow, len(l.Rows)),
	}
	for k, v := range l.Columns {
		c.Columns[k] = v
	}
	for i, r := range l.Rows {
		r.Extra = append([]string(nil), r.Extra...)
		c.Rows[i] = r
	}
	return c
}

// DatesBySourceIndex maps each row's source index to its current canonical
// date ("" when the row has no valid date), ordered by source index.
func (l *Ledger) DatesBySourceIndex() ([]int, map[int]string) {
	dates := make(map[int]string, len(l.Rows))
	indexes := make([]int, 0, len(l.Rows))
	for _, r := range l.Rows {
		indexes = append(indexes, r.Index)
		if r.TxnDate.Valid {
			dates[r.Index] = r.TxnDate.Parsed
		} else {
			dates[r.Index] = ""
		}
	}
	sort.Ints(indexes)
	return indexes, dates
}
