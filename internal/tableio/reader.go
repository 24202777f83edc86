// Package tableio reads raw statement tables from CSV and XLSX files and
// writes cleaned ledgers back out.
package tableio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
)

// Supported input extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// Codec reads and writes statement tables with a fixed CSV delimiter.
type Codec struct {
	logger    logging.Logger
	delimiter rune
}

// NewCodec creates a Codec. A zero delimiter means comma.
func NewCodec(logger logging.Logger, delimiter rune) *Codec {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Codec{logger: logger, delimiter: delimiter}
}

// Delimiter returns the CSV delimiter in use.
func (c *Codec) Delimiter() rune {
	return c.delimiter
}

// IsSupported reports whether path has an extension ReadFile understands.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV, ExtXLSX:
		return true
	}
	return false
}

// ReadFile loads a table, dispatching on the file extension.
func (c *Codec) ReadFile(path string) (models.Table, error) {
	c.logger.Info("Reading statement table",
		logging.Field{Key: logging.FieldInputFile, Value: path})

	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV:
		f, err := os.Open(path)
		if err != nil {
			return models.Table{}, fmt.Errorf("error opening CSV file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				c.logger.WithError(err).Warn("Failed to close file")
			}
		}()
		table, err := c.ReadCSV(f)
		if err != nil {
			return models.Table{}, &parsererror.ParseError{Reader: "csv", Field: "file", Value: path, Err: err}
		}
		return table, nil

	case ExtXLSX:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return models.Table{}, fmt.Errorf("error opening workbook: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				c.logger.WithError(err).Warn("Failed to close workbook")
			}
		}()
		table, err := readWorkbook(f)
		if err != nil {
			return models.Table{}, &parsererror.ParseError{Reader: "xlsx", Field: "file", Value: path, Err: err}
		}
		return table, nil
	}

	return models.Table{}, &parsererror.InvalidFormatError{
		FilePath:       path,
		ExpectedFormat: "CSV or XLSX",
		Msg:            "unsupported file extension",
	}
}

// ReadCSV parses a delimited table. The first record is the header; later
// records may have any number of fields.
func (c *Codec) ReadCSV(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return toTable(records)
}

// ReadXLSX parses the first sheet of a workbook held in memory.
func (c *Codec) ReadXLSX(data []byte) (models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.Table{}, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (models.Table, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return models.Table{}, parsererror.ErrEmptyTable
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	return toTable(rows)
}

func toTable(records [][]string) (models.Table, error) {
	if len(records) == 0 {
		return models.Table{}, parsererror.ErrEmptyTable
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return models.Table{Header: header, Records: records[1:]}, nil
}
