package models

// Canonical column names. Upstream column mapping renames source headers to
// these before a table reaches the cleaning pipeline.
const (
	ColumnDate      = "Date"
	ColumnValueDate = "Value Date"
	ColumnReference = "Reference"
	ColumnNarration = "Narration"
	ColumnDebit     = "Debit"
	ColumnCredit    = "Credit"
	ColumnBalance   = "Balance"
)

// CanonicalColumns lists the canonical columns in output order.
var CanonicalColumns = []string{
	ColumnDate,
	ColumnValueDate,
	ColumnReference,
	ColumnNarration,
	ColumnDebit,
	ColumnCredit,
	ColumnBalance,
}

// CanonicalDateLayout is the only date format rows carry once parsed.
const CanonicalDateLayout = "02/01/2006"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
