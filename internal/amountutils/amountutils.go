// Package amountutils turns OCR-damaged monetary cells into signed decimal
// values.
//
// Statement amounts come out of OCR with dropped or misread decimal points,
// thousands separators that look like decimal points, colon/semicolon
// instead of a dot, DR/CR suffixes and accounting parentheses. Normalize
// repairs all of these with a fixed set of rules; it never fails, it only
// reports whether a value could be read.
package amountutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// DR as a standalone letter token ("12.00 DR", "12.00DR", "Dr."), not
	// inside a word like "ADDRESS".
	drToken = regexp.MustCompile(`(?i)(?:^|[^a-z])dr(?:[^a-z]|$)`)

	// An abbreviation dot ("Dr. 100", "Rs. 5") is one followed by a space or
	// the end of the cell. A dot followed by a digit is a decimal point even
	// when OCR turned the digit before it into a letter ("25O.5").
	abbrevDot = regexp.MustCompile(`[A-Za-z]+\.(\s|$)`)

	nonNumeric = regexp.MustCompile(`[^0-9.]`)

	firstNumber = regexp.MustCompile(`[0-9.]+`)
)

// Normalize converts a raw monetary token to a decimal rounded to cents.
// The boolean is false when the token is empty or carries no digits.
//
// Rules, in order:
//   - a leading '-' or enclosing parentheses make the value negative
//   - ':' and ';' are read as decimal points, commas, apostrophes and
//     whitespace are dropped, and only digits and dots are kept
//   - with several dots and exactly three digits after the last one, every
//     dot is a thousands separator ("4.54.554" is 454554)
//   - otherwise the digits after the last dot decide the scale of the
//     concatenated digits: none keeps it whole, one divides by 10, two or
//     more divide by 100
//   - a DR marker makes a non-negative result negative
func Normalize(raw string) (decimal.Decimal, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, false
	}

	negative := strings.HasPrefix(text, "-") ||
		(strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")"))
	debit := drToken.MatchString(text)

	text = abbrevDot.ReplaceAllString(text, " ")
	text = strings.NewReplacer(":", ".", ";", ".").Replace(text)
	numeric := strings.TrimRight(nonNumeric.ReplaceAllString(text, ""), ".")

	digits := strings.ReplaceAll(numeric, ".", "")
	if digits == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false
	}

	if last := strings.LastIndex(numeric, "."); last >= 0 {
		fraction := len(numeric) - last - 1
		grouped := strings.Count(numeric, ".") > 1 && fraction == 3
		switch {
		case grouped:
		case fraction == 1:
			value = value.Shift(-1)
		case fraction >= 2:
			value = value.Shift(-2)
		}
	}

	value = value.Round(2)
	if negative {
		value = value.Neg()
	}
	if debit && !value.IsNegative() {
		value = value.Neg()
	}
	return value, true
}

// NormalizeNull is Normalize packaged as a NullDecimal.
func NormalizeNull(raw string) decimal.NullDecimal {
	v, ok := Normalize(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

// ExtractAmount is the naive reading of a cell: the first run of digits and
// dots with commas removed and no OCR repair beyond thousands-dot grouping.
// It is kept to pair every corrected value with what a plain parse would
// have produced, so corrections can be counted and reported.
func ExtractAmount(raw string) (decimal.Decimal, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return decimal.Zero, false
	}
	negative := strings.Contains(text, "-")

	text = strings.NewReplacer("cr", "", "dr", "", ",", "", " ", "").Replace(text)
	token := firstNumber.FindString(text)
	if token == "" {
		return decimal.Zero, false
	}

	parts := strings.Split(token, ".")
	switch {
	case len(parts) > 2 && len(parts[len(parts)-1]) == 3:
		token = strings.Join(parts, "")
	case len(parts) > 2:
		token = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	case len(parts) == 2 && len(parts[1]) > 2:
		joined := parts[0] + parts[1]
		token = joined[:len(joined)-2] + "." + joined[len(joined)-2:]
	}

	value, err := decimal.NewFromString(strings.Trim(token, "."))
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		value = value.Neg()
	}
	return value, true
}

// Round2 rounds to cents, mapping an absent value to zero.
func Round2(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal.Round(2)
}

// FormatAmount renders a value with exactly two decimals and no grouping.
func FormatAmount(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// FormatNull renders a NullDecimal, or "" when absent.
func FormatNull(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}
