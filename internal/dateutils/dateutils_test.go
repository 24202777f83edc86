package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"day month-name short year", "15-JAN-24", "15/01/2024", true},
		{"iso", "2024-03-05", "05/03/2024", true},
		{"zero day rejected", "00/01/2024", "", false},
		{"zero month rejected", "12-00-2024", "", false},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
		{"noise prefix numeric", "25 28-11-2025", "28/11/2025", true},
		{"noise prefix month name", "7 12 Mar 2024", "12/03/2024", true},
		{"noise prefix short year", "3 1/2/24", "01/02/2024", true},
		{"day month-name long year", "3 January 2024", "03/01/2024", true},
		{"month-name day year", "Sept 5 2024", "05/09/2024", true},
		{"ocr zero in OCT", "15-0CT-2023", "15/10/2023", true},
		{"ocr zero in AUG", "2 A0G 2022", "02/08/2022", true},
		{"parenthesised note dropped", "(value) 15-JAN-2024", "15/01/2024", true},
		{"quotes and brackets dropped", "[15-Feb-'24]", "15/02/2024", true},
		{"numeric day-first", "15/01/2024", "15/01/2024", true},
		{"dotted day-first", "5.3.2024", "05/03/2024", true},
		{"compact ymd", "20240305", "05/03/2024", true},
		{"compact day month-name", "15JAN2024", "15/01/2024", true},
		{"compact month-name day", "JAN152024", "15/01/2024", true},
		{"spaced compact", "15 JAN2024", "15/01/2024", true},
		{"two digit year before pivot", "1-Feb-30", "01/02/2030", true},
		{"two digit year after pivot", "1-Feb-31", "01/02/1931", true},
		{"bare year", "2024", "2024", true},
		{"fallback short numeric day-first", "15/01/24", "15/01/2024", true},
		{"fallback short numeric month-first", "01/15/24", "15/01/2024", true},
		{"fallback short numeric with spaces", "15 01 24", "15/01/2024", true},
		{"fallback long form", "March 5, 2024", "05/03/2024", true},
		{"iso timestamp prefix", "2024-03-05T10:30:15", "05/03/2024", true},
		{"shape match without calendar check", "31/02/2024", "31/02/2024", true},
		{"garbage", "BALANCE B/F", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_NeverPanics(t *testing.T) {
	for _, in := range []string{"((", "99999999999999999999", "-/-/-", "JAN", "1 2 3", "\xff\xfe"} {
		assert.NotPanics(t, func() { Parse(in) }, in)
	}
}

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		token    string
		expected int
		ok       bool
	}{
		{"JAN", 1, true},
		{"january", 1, true},
		{"Fb", 2, true},
		{"RCH", 3, true},
		{"A0G", 8, true},
		{"0ct", 10, true},
		{"SEPT.", 9, true},    // letters only
		{"FEBRAURY", 2, true}, // 3-char prefix
		{"NOVEMBR", 11, true},
		{"0KT", 10, true}, // nearest alias by similarity
		{"DCE", 12, true},
		{"XYZ", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := NormalizeMonth(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate(29, 2, 2024))
	assert.False(t, IsValidDate(29, 2, 2023))
	assert.True(t, IsValidDate(29, 2, 2000))
	assert.False(t, IsValidDate(29, 2, 1900))
	assert.False(t, IsValidDate(31, 4, 2024))
	assert.True(t, IsValidDate(31, 12, 2100))
	assert.False(t, IsValidDate(1, 1, 1899))
	assert.False(t, IsValidDate(1, 1, 2101))
	assert.False(t, IsValidDate(0, 1, 2024))
	assert.False(t, IsValidDate(1, 13, 2024))
}

func TestParseCanonical(t *testing.T) {
	d, ok := ParseCanonical("05/03/2024")
	require.True(t, ok)
	assert.Equal(t, Date{Year: 2024, Month: 3, Day: 5}, d)
	assert.Equal(t, "05/03/2024", d.String())

	for _, s := range []string{"5/3/2024", "31/02/2024", "2024", "05-03-2024", ""} {
		assert.False(t, IsValid(s), s)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2024, Month: 2, Day: 28}

	assert.Equal(t, "29/02/2024", d.AddDays(1).String())
	assert.Equal(t, "01/03/2024", d.AddDays(2).String())
	assert.Equal(t, "31/01/2024", d.AddDays(-28).String())
	assert.Equal(t, 2, d.DaysUntil(Date{Year: 2024, Month: 3, Day: 1}))
	assert.Equal(t, -366, Date{Year: 2025, Month: 2, Day: 28}.DaysUntil(Date{Year: 2024, Month: 2, Day: 28}))

	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(Date{Year: 2023, Month: 12, Day: 31}))
	assert.Equal(t, 0, d.Compare(Date{Year: 2024, Month: 2, Day: 28}))

	assert.False(t, Date{Year: 2024, Month: 2, Day: 29}.WithYear(2023).Valid())
	assert.Equal(t, d, FromTime(time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC)))
}
