// Package dateutils parses OCR-damaged statement date tokens into the
// canonical DD/MM/YYYY form and provides the calendar arithmetic the
// chronology repair relies on.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Accepted calendar range for a statement date.
const (
	MinYear = 1900
	MaxYear = 2100
)

// CanonicalLayout is the time layout of a canonical date string.
const CanonicalLayout = "02/01/2006"

var canonicalPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// Date is a civil calendar date without time or zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsValidDate reports whether day/month/year is a real calendar date within
// [MinYear, MaxYear], honouring month lengths and leap years.
func IsValidDate(day, month, year int) bool {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(month, year)
}

func daysIn(month, year int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// ParseCanonical reads a DD/MM/YYYY string. It fails on any other shape and
// on dates IsValidDate rejects.
func ParseCanonical(s string) (Date, bool) {
	m := canonicalPattern.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if !IsValidDate(day, month, year) {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// IsValid reports whether s is a valid canonical date.
func IsValid(s string) bool {
	_, ok := ParseCanonical(s)
	return ok
}

// FromTime takes the calendar date of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts the date by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// Compare returns -1, 0 or 1 as d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// WithYear returns the same day and month in another year. The result is
// not validated; Feb 29 may not exist in year.
func (d Date) WithYear(year int) Date {
	return Date{Year: year, Month: d.Month, Day: d.Day}
}

// Valid reports whether d passes IsValidDate.
func (d Date) Valid() bool {
	return IsValidDate(d.Day, d.Month, d.Year)
}

// String renders the canonical DD/MM/YYYY form.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
