// Package report renders the per-statement verification summary.
package report

import "encoding/xml"

// MaxMismatches caps the rows listed in a summary.
const MaxMismatches = 5

// DateCorrections counts date rewrites per repair phase.
type DateCorrections struct {
	Passes     int `json:"passes" yaml:"passes" xml:"passes"`
	Local      int `json:"local" yaml:"local" xml:"local"`
	RunFills   int `json:"run_fills" yaml:"run_fills" xml:"run_fills"`
	Sweep      int `json:"sweep" yaml:"sweep" xml:"sweep"`
	YearDrift  int `json:"year_drift" yaml:"year_drift" xml:"year_drift"`
	Unresolved int `json:"unresolved" yaml:"unresolved" xml:"unresolved"`
}

// Total is the number of date cells rewritten.
func (d DateCorrections) Total() int {
	return d.Local + d.RunFills + d.Sweep + d.YearDrift
}

// Mismatch is a row whose running balance did not reconcile.
type Mismatch struct {
	Row        int    `json:"row" yaml:"row" xml:"row,attr"`
	Date       string `json:"date" yaml:"date" xml:"date"`
	Debit      string `json:"debit" yaml:"debit" xml:"debit"`
	Credit     string `json:"credit" yaml:"credit" xml:"credit"`
	Balance    string `json:"balance" yaml:"balance" xml:"balance"`
	Difference string `json:"difference" yaml:"difference" xml:"difference"`
}

// Summary describes the outcome of cleaning one statement.
type Summary struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"summary"`

	RunID       string `json:"run_id,omitempty" yaml:"run_id,omitempty" xml:"run_id,omitempty"`
	Source      string `json:"source" yaml:"source" xml:"source"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at" xml:"generated_at"`

	Rows      int `json:"rows" yaml:"rows" xml:"rows"`
	BlankRows int `json:"blank_rows" yaml:"blank_rows" xml:"blank_rows"`

	InitialDirection string `json:"initial_direction" yaml:"initial_direction" xml:"initial_direction"`
	Direction        string `json:"direction" yaml:"direction" xml:"direction"`
	Rotated          bool   `json:"rotated" yaml:"rotated" xml:"rotated"`

	Verified      bool   `json:"verified" yaml:"verified" xml:"verified"`
	AllCorrect    bool   `json:"all_correct" yaml:"all_correct" xml:"all_correct"`
	Adjusted      bool   `json:"adjusted" yaml:"adjusted" xml:"adjusted"`
	MaxDifference string `json:"max_difference" yaml:"max_difference" xml:"max_difference"`

	AmountCorrections int             `json:"amount_corrections" yaml:"amount_corrections" xml:"amount_corrections"`
	DateCorrections   DateCorrections `json:"date_corrections" yaml:"date_corrections" xml:"date_corrections"`
	DatesLogged       int             `json:"dates_logged" yaml:"dates_logged" xml:"dates_logged"`

	Mismatches  []Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty" xml:"mismatches>mismatch,omitempty"`
	StageErrors []string   `json:"stage_errors,omitempty" yaml:"stage_errors,omitempty" xml:"stage_errors>error,omitempty"`
}

// OK reports whether the statement came out clean: verified, balanced and
// with every stage completed.
func (s *Summary) OK() bool {
	return s.Verified && s.AllCorrect && len(s.StageErrors) == 0
}
