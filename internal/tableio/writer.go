package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-clean/internal/amountutils"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
)

// CleanRow is one line of the cleaned output.
type CleanRow struct {
	Date       string `csv:"Date" json:"date"`
	Reference  string `csv:"Reference" json:"reference"`
	Narration  string `csv:"Narration" json:"narration"`
	Debit      string `csv:"Debit" json:"debit"`
	Credit     string `csv:"Credit" json:"credit"`
	Balance    string `csv:"Balance" json:"balance"`
	Difference string `csv:"Difference" json:"difference"`
}

// DebugRow is CleanRow plus every amount before and after correction.
type DebugRow struct {
	Date             string `csv:"Date"`
	Reference        string `csv:"Reference"`
	Narration        string `csv:"Narration"`
	Debit            string `csv:"Debit"`
	Credit           string `csv:"Credit"`
	Balance          string `csv:"Balance"`
	Difference       string `csv:"Difference"`
	DebitOriginal    string `csv:"Debit_Original"`
	DebitCorrected   string `csv:"Debit_Corrected"`
	CreditOriginal   string `csv:"Credit_Original"`
	CreditCorrected  string `csv:"Credit_Corrected"`
	BalanceOriginal  string `csv:"Balance_Original"`
	BalanceCorrected string `csv:"Balance_Corrected"`
	BalanceAdjusted  string `csv:"Balance_Adjusted"`
}

// DebugColumns is the header of the debug workbook, in column order.
var DebugColumns = []string{
	"Date", "Reference", "Narration", "Debit", "Credit", "Balance", "Difference",
	"Debit_Original", "Debit_Corrected", "Credit_Original", "Credit_Corrected",
	"Balance_Original", "Balance_Corrected", "Balance_Adjusted",
}

const debugSheet = "Ledger"

// CleanRows renders the ledger in its current row order. Blank rows stay
// blank; a row without a valid date gets an empty Date.
func CleanRows(l *models.Ledger) []CleanRow {
	rows := make([]CleanRow, len(l.Rows))
	for i, r := range l.Rows {
		if r.Blank {
			continue
		}
		rows[i] = CleanRow{
			Date:       validDate(r.TxnDate),
			Reference:  r.Reference,
			Narration:  r.Narration,
			Debit:      amountutils.FormatNull(r.Debit),
			Credit:     amountutils.FormatNull(r.Credit),
			Balance:    amountutils.FormatNull(outputBalance(r)),
			Difference: amountutils.FormatAmount(r.Difference),
		}
	}
	return rows
}

// DebugRows renders the ledger with the paired original/corrected columns.
func DebugRows(l *models.Ledger) []DebugRow {
	clean := CleanRows(l)
	rows := make([]DebugRow, len(l.Rows))
	for i, r := range l.Rows {
		if r.Blank {
			continue
		}
		c := clean[i]
		rows[i] = DebugRow{
			Date:             c.Date,
			Reference:        c.Reference,
			Narration:        c.Narration,
			Debit:            c.Debit,
			Credit:           c.Credit,
			Balance:          c.Balance,
			Difference:       c.Difference,
			DebitOriginal:    r.DebitRaw,
			DebitCorrected:   amountutils.FormatNull(r.Debit),
			CreditOriginal:   r.CreditRaw,
			CreditCorrected:  amountutils.FormatNull(r.Credit),
			BalanceOriginal:  r.BalanceRaw,
			BalanceCorrected: amountutils.FormatNull(r.Balance),
			BalanceAdjusted:  amountutils.FormatNull(r.AdjustedBalance),
		}
	}
	return rows
}

func validDate(e models.DateEntry) string {
	if !e.Valid {
		return ""
	}
	return e.Parsed
}

func outputBalance(r models.LedgerRow) decimal.NullDecimal {
	if r.AdjustedBalance.Valid {
		return r.AdjustedBalance
	}
	return r.Balance
}

// WriteCleanCSV writes the ledger to path, creating parent directories.
func (c *Codec) WriteCleanCSV(l *models.Ledger, path string, includeDebug bool) error {
	c.logger.Info("Writing cleaned ledger",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: l.Len()})

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return c.WriteCSV(f, l, includeDebug)
}

// WriteCSV marshals the ledger to w with the codec's delimiter.
func (c *Codec) WriteCSV(w io.Writer, l *models.Ledger, includeDebug bool) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = c.delimiter
	out := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if includeDebug {
		err = gocsv.MarshalCSV(DebugRows(l), out)
	} else {
		err = gocsv.MarshalCSV(CleanRows(l), out)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteDebugWorkbook writes the debug columns to an XLSX workbook.
func (c *Codec) WriteDebugWorkbook(l *models.Ledger, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), debugSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, len(DebugColumns))
	for i, h := range DebugColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(debugSheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, r := range DebugRows(l) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Date, r.Reference, r.Narration, r.Debit, r.Credit, r.Balance, r.Difference,
			r.DebitOriginal, r.DebitCorrected, r.CreditOriginal, r.CreditCorrected,
			r.BalanceOriginal, r.BalanceCorrected, r.BalanceAdjusted,
		}
		if err := f.SetSheetRow(debugSheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	c.logger.Info("Debug workbook written",
		logging.Field{Key: logging.FieldOutputFile, Value: path})
	return nil
}
