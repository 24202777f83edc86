package tableio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
)

func newCodec(delim rune) *Codec {
	return NewCodec(logging.NewMockLogger(), delim)
}

func TestReadFile_CSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stmt.csv")
	content := "\ufeffDate;Debit;Credit;Balance;Memo\n" +
		"01/01/2024;;100,00;100,00\n" +
		";;;;\n" +
		"02/01/2024;50,00;;50,00;rent;extra\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	table, err := newCodec(';').ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Debit", "Credit", "Balance", "Memo"}, table.Header)
	require.Len(t, table.Records, 3)
	assert.Equal(t, "100,00", table.Records[0][2])
	assert.True(t, models.IsBlankRecord(table.Records[1]))
	assert.Len(t, table.Records[2], 6)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	codec := newCodec(',')

	_, err := codec.ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "stmt.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Date\n"), 0600))
	_, err = codec.ReadFile(txt)
	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = codec.ReadFile(empty)
	assert.ErrorIs(t, err, parsererror.ErrEmptyTable)
}

func TestReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stmt.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Debit", "Credit", "Balance"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"15 Jan 2024", "", "20.00", "120.00"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := newCodec(',').ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Debit", "Credit", "Balance"}, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "15 Jan 2024", table.Records[0][0])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fromMemory, err := newCodec(',').ReadXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, table, fromMemory)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.CSV"))
	assert.True(t, IsSupported("dir/b.xlsx"))
	assert.False(t, IsSupported("c.pdf"))
	assert.False(t, IsSupported("noext"))
}

func sampleLedger() *models.Ledger {
	return &models.Ledger{Rows: []models.LedgerRow{
		{
			Index:           0,
			Reference:       "R1",
			Narration:       "salary",
			CreditRaw:       "1.000,00",
			BalanceRaw:      "1.000,00",
			Credit:          decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			Balance:         decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			AdjustedBalance: decimal.NewNullDecimal(decimal.NewFromInt(1000)),
			TxnDate:         models.DateEntry{Parsed: "01/01/2024", Valid: true},
		},
		{Index: 1, Blank: true},
		{
			Index:           2,
			Narration:       "rent",
			DebitRaw:        "25O.5",
			BalanceRaw:      "749.51",
			Debit:           decimal.NewNullDecimal(decimal.RequireFromString("-250.50")),
			Balance:         decimal.NewNullDecimal(decimal.RequireFromString("749.51")),
			AdjustedBalance: decimal.NewNullDecimal(decimal.RequireFromString("749.50")),
			Difference:      decimal.RequireFromString("-0.01"),
			TxnDate:         models.DateEntry{Parsed: "31/02/2024"},
		},
	}}
}

func TestWriteCSV_Clean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newCodec(',').WriteCSV(&buf, sampleLedger(), false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Reference,Narration,Debit,Credit,Balance,Difference", lines[0])
	assert.Equal(t, "01/01/2024,R1,salary,,1000.00,1000.00,0.00", lines[1])
	assert.Equal(t, ",,,,,,", lines[2])
	assert.Equal(t, ",,rent,-250.50,,749.50,-0.01", lines[3])
}

func TestWriteCleanCSV_DebugColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clean.csv")
	require.NoError(t, newCodec(';').WriteCleanCSV(sampleLedger(), path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, strings.Join(DebugColumns, ";"), lines[0])
	assert.Equal(t, ";;rent;-250.50;;749.50;-0.01;25O.5;-250.50;;;749.51;749.51;749.50", lines[3])
}

func TestWriteDebugWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.xlsx")
	require.NoError(t, newCodec(',').WriteDebugWorkbook(sampleLedger(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, debugSheet, f.GetSheetName(0))
	rows, err := f.GetRows(debugSheet)
	require.NoError(t, err)
	assert.Equal(t, DebugColumns, rows[0])
	assert.Equal(t, "1.000,00", rows[1][9])
	assert.Equal(t, "25O.5", rows[3][7])
}
