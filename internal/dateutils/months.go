package dateutils

import (
	"regexp"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// monthSimilarityCutoff is the minimum similarity ratio for a fuzzy alias
// match.
const monthSimilarityCutoff = 0.6

type monthAlias struct {
	alias string
	month int
}

// monthAliases maps canonical abbreviations, full names and the OCR
// corruptions seen in scanned statements to month numbers. Order matters:
// fuzzy ties and substring containment resolve to the earliest entry.
var monthAliases = []monthAlias{
	{"JAN", 1}, {"AN", 1}, {"JA", 1}, {"JANUARY", 1},
	{"FEB", 2}, {"FE", 2}, {"FB", 2}, {"FEBRUARY", 2},
	{"MAR", 3}, {"MR", 3}, {"RCH", 3}, {"MARCH", 3},
	{"APR", 4}, {"AP", 4}, {"APRIL", 4},
	{"MAY", 5}, {"MY", 5},
	{"JUN", 6}, {"JN", 6}, {"UN", 6}, {"JUNE", 6},
	{"JUL", 7}, {"JL", 7}, {"UL", 7}, {"JULY", 7}, {"JU", 7},
	{"AUG", 8}, {"AU", 8}, {"A0G", 8}, {"AUGUST", 8},
	{"SEP", 9}, {"SE", 9}, {"SEPT", 9}, {"SEPTEMBER", 9},
	{"OCT", 10}, {"OC", 10}, {"0CT", 10}, {"OCTOBER", 10},
	{"NOV", 11}, {"NO", 11}, {"NOVEMBER", 11},
	{"DEC", 12}, {"DE", 12}, {"DECEMBER", 12},
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(monthAliases))
	for _, a := range monthAliases {
		m[a.alias] = a.month
	}
	return m
}()

var nonUpperAlpha = regexp.MustCompile(`[^A-Z]`)

// NormalizeMonth resolves a month token to 1..12. It tries, in order: an
// exact alias, the alias left after dropping non-letters, a 4- then
// 3-character prefix, the most similar alias by Levenshtein ratio (at least
// 0.6), and finally containment of an alias in the token or vice versa.
func NormalizeMonth(token string) (int, bool) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return 0, false
	}

	if m, ok := monthIndex[token]; ok {
		return m, true
	}

	if letters := nonUpperAlpha.ReplaceAllString(token, ""); letters != "" {
		if m, ok := monthIndex[letters]; ok {
			return m, true
		}
	}

	for _, n := range []int{4, 3} {
		if len(token) >= n {
			if m, ok := monthIndex[token[:n]]; ok {
				return m, true
			}
		}
	}

	if m, ok := closestMonth(token); ok {
		return m, true
	}

	for _, a := range monthAliases {
		if strings.Contains(token, a.alias) || strings.Contains(a.alias, token) {
			return a.month, true
		}
	}

	return 0, false
}

// closestMonth returns the month of the alias most similar to token, if its
// similarity reaches the cutoff.
func closestMonth(token string) (int, bool) {
	source := []rune(token)
	best, bestMonth := 0.0, 0
	for _, a := range monthAliases {
		r := levenshtein.RatioForStrings(source, []rune(a.alias), levenshtein.DefaultOptions)
		if r > best {
			best, bestMonth = r, a.month
		}
	}
	if best < monthSimilarityCutoff {
		return 0, false
	}
	return bestMonth, true
}
