package models

import "strings"

// Table is a raw, string-typed statement table: one header row and the data
// records below it. Records may be ragged; missing trailing cells read as
// empty.
type Table struct {
	Header  []string
	Records [][]string
}

// ColumnIndex returns the position of the named column, or -1. Header cells
// are compared after trimming surrounding whitespace.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at col, or "" when the record is too short
// or col is negative.
func Cell(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

// IsBlankRecord reports whether every cell of the record is empty.
func IsBlankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
