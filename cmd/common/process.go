// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"

	"fjacquet/stmt-clean/internal/container"
	"fjacquet/stmt-clean/internal/fileutils"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/report"
)

// Options selects the optional outputs of ProcessFile.
type Options struct {
	// Debug adds the original/corrected columns to the CSV and writes a
	// debug workbook next to it.
	Debug bool
	// ReportFormat writes a summary report when non-empty.
	ReportFormat string
}

// ProcessFile cleans one statement file and writes the cleaned CSV to
// outputFile. It returns the run summary.
func ProcessFile(ctx context.Context, c *container.Container, inputFile, outputFile string, opts Options) (*report.Summary, error) {
	log := c.GetLogger().WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})

	table, err := c.GetCodec().ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", inputFile, err)
	}

	res, err := c.GetPipeline().Run(ctx, table, inputFile)
	if err != nil {
		return nil, fmt.Errorf("error cleaning %s: %w", inputFile, err)
	}

	if err := c.GetCodec().WriteCleanCSV(res.Ledger, outputFile, opts.Debug); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", outputFile, err)
	}

	if opts.Debug {
		if err := c.GetCodec().WriteDebugWorkbook(res.Ledger, fileutils.DebugWorkbookPath(outputFile)); err != nil {
			log.WithError(err).Warn("Failed to write debug workbook")
		}
	}

	if opts.ReportFormat != "" {
		if _, err := c.GetReportGenerator().WriteFile(res.Summary, opts.ReportFormat, outputFile); err != nil {
			return res.Summary, fmt.Errorf("error writing report: %w", err)
		}
	}

	log.Info("Statement processed",
		logging.Field{Key: logging.FieldCount, Value: res.Summary.Rows},
		logging.Field{Key: "all_correct", Value: res.Summary.AllCorrect},
		logging.Field{Key: "date_corrections", Value: res.Summary.DateCorrections.Total()})
	return res.Summary, nil
}
