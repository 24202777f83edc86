package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// A standalone "00" digit group is a zero day or month and disqualifies
	// the whole token.
	standaloneZero = regexp.MustCompile(`(^|\D)00($|\D)`)

	// OCR noise digits glued in front of an otherwise complete date:
	// "25 28-11-2025", "7 12 MAR 2024".
	mixedNumeric = regexp.MustCompile(`^\s*\d+\s+(\d{1,2})[-/.](\d{1,2})[-/.](\d{2,4})\s*$`)
	mixedNamed   = regexp.MustCompile(`^\s*\d+\s+(\d{1,2})[-/.\s]+([A-Za-z]{3,9})[-/.\s]+(\d{2,4})\s*$`)

	dayMonthNameYear = regexp.MustCompile(`^(\d{1,2})[-/\s.]+([A-Z]{3,9})[-/\s.]+(\d{2,4})`)
	monthNameDayYear = regexp.MustCompile(`^([A-Z]{3,9})[-/\s.]+(\d{1,2})[-/\s.]+(\d{2,4})`)
	yearMonthDay     = regexp.MustCompile(`^(\d{4})[-/\s.]+(\d{1,2})[-/\s.]+(\d{1,2})`)
	dayMonthYear     = regexp.MustCompile(`^(\d{1,2})[-/\s.]+(\d{1,2})[-/\s.]+(\d{4})`)
	compactYMD       = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)
	compactDayMonth  = regexp.MustCompile(`^(\d{1,2})([A-Z]{3,9})(\d{2,4})`)
	compactMonthDay  = regexp.MustCompile(`^([A-Z]{3,9})(\d{1,2})(\d{2,4})`)
	bareYear         = regexp.MustCompile(`^\d{4}$`)
	shortNumeric     = regexp.MustCompile(`^(\d{1,2})[-/.\s](\d{1,2})[-/.\s](\d{2})$`)

	parenthesized = regexp.MustCompile(`\(.*?\)`)
	whitespace    = regexp.MustCompile(`\s+`)
	brackets      = regexp.MustCompile(`[\[\]{}]`)
)

// Full month names are shortened before matching so the alias table only
// has to resolve abbreviations. SEPTEMBER must precede SEPT.
var monthWordFixer = strings.NewReplacer(
	"JULY", "JUL", "JANUARY", "JAN", "FEBRUARY", "FEB",
	"MARCH", "MAR", "APRIL", "APR", "JUNE", "JUN",
	"AUGUST", "AUG", "SEPTEMBER", "SEP", "SEPT", "SEP",
	"OCTOBER", "OCT", "NOVEMBER", "NOV", "DECEMBER", "DEC",
)

var ocrFixer = strings.NewReplacer("0CT", "OCT", "A0G", "AUG", "`", "", "'", "")

// Fallback layouts, day-first before month-first.
var (
	dayFirstLayouts = []string{
		"2 January 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"Monday, 2 January 2006",
		"Mon, 02 Jan 2006",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"2/1/2006",
		"02-01-2006",
		"02.01.2006",
	}
	monthFirstLayouts = []string{
		"01/02/2006",
		"1/2/2006",
		"01-02-2006",
		"01/02/2006 15:04:05",
	}
)

// Parse converts a raw date token to canonical DD/MM/YYYY. The boolean is
// false when no strategy recognises the token. A successful parse is a
// shape match, not a calendar check: "31/02/2024" or a bare year "2024" can
// be returned, and IsValid tells them apart from real dates.
//
// Strategies, first match wins:
//  1. noise digits in front of a numeric or month-name date
//  2. DD-Mon-YY(YY) and Mon-DD-YY(YY), month resolved by NormalizeMonth
//  3. YYYY-MM-DD and DD-MM-YYYY with '-', '/', '.' or space separators
//  4. YYYYMMDD
//  5. DDMonYY(YY) and MonDDYY(YY) with all spaces removed
//  6. a bare four-digit year, returned unchanged
//  7. generic layouts, day-first then month-first
func Parse(raw string) (string, bool) {
	token := strings.TrimSpace(raw)
	if token == "" || standaloneZero.MatchString(token) {
		return "", false
	}

	if m := mixedNumeric.FindStringSubmatch(token); m != nil {
		return format(m[1], m[2], m[3]), true
	}
	if m := mixedNamed.FindStringSubmatch(token); m != nil {
		if month, ok := NormalizeMonth(m[2]); ok {
			return format(m[1], strconv.Itoa(month), m[3]), true
		}
	}

	cleaned := clean(token)

	if m := dayMonthNameYear.FindStringSubmatch(cleaned); m != nil {
		if month, ok := NormalizeMonth(m[2]); ok {
			return format(m[1], strconv.Itoa(month), m[3]), true
		}
	}
	if m := monthNameDayYear.FindStringSubmatch(cleaned); m != nil {
		if month, ok := NormalizeMonth(m[1]); ok {
			return format(m[2], strconv.Itoa(month), m[3]), true
		}
	}
	if m := yearMonthDay.FindStringSubmatch(cleaned); m != nil {
		return format(m[3], m[2], m[1]), true
	}
	if m := dayMonthYear.FindStringSubmatch(cleaned); m != nil {
		return format(m[1], m[2], m[3]), true
	}
	if m := compactYMD.FindStringSubmatch(cleaned); m != nil {
		return format(m[3], m[2], m[1]), true
	}

	compact := whitespace.ReplaceAllString(cleaned, "")
	if m := compactDayMonth.FindStringSubmatch(compact); m != nil {
		if month, ok := NormalizeMonth(m[2]); ok {
			return format(m[1], strconv.Itoa(month), m[3]), true
		}
	}
	if m := compactMonthDay.FindStringSubmatch(compact); m != nil {
		if month, ok := NormalizeMonth(m[1]); ok {
			return format(m[2], strconv.Itoa(month), m[3]), true
		}
	}

	if bareYear.MatchString(cleaned) {
		return cleaned, true
	}

	return parseFallback(token)
}

// clean upper-cases the token and removes the OCR debris seen around
// statement dates: parenthesised notes, quotes, brackets and doubled spaces.
func clean(token string) string {
	s := strings.ToUpper(token)
	s = parenthesized.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = ocrFixer.Replace(s)
	s = brackets.ReplaceAllString(s, "")
	s = monthWordFixer.Replace(s)
	return strings.TrimSpace(s)
}

func parseFallback(token string) (string, bool) {
	if m := shortNumeric.FindStringSubmatch(token); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year := expandYear(m[3])
		y, _ := strconv.Atoi(year)
		switch {
		case IsValidDate(first, second, y):
			return format(m[1], m[2], year), true
		case IsValidDate(second, first, y):
			return format(m[2], m[1], year), true
		}
		return "", false
	}

	for _, layouts := range [][]string{dayFirstLayouts, monthFirstLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, token); err == nil {
				return t.Format(CanonicalLayout), true
			}
		}
	}
	return "", false
}

// expandYear pivots two-digit years: 00-30 are 20xx, 31-99 are 19xx.
// Other lengths are returned unchanged.
func expandYear(year string) string {
	if len(year) != 2 {
		return year
	}
	v, _ := strconv.Atoi(year)
	if v <= 30 {
		return "20" + year
	}
	return "19" + year
}

func format(day, month, year string) string {
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	return fmt.Sprintf("%02d/%02d/%s", d, m, expandYear(year))
}
