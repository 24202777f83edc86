// Package clean implements the clean command.
package clean

import (
	"github.com/spf13/cobra"

	"fjacquet/stmt-clean/cmd/common"
	"fjacquet/stmt-clean/cmd/root"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/validation"
)

var (
	inputFile    string
	outputFile   string
	debug        bool
	reportFormat string
)

// Cmd represents the clean command
var Cmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a single statement table",
	Long: `Clean a single statement table (CSV or XLSX) and write the cleaned ledger as CSV.

Amounts are repaired and reconciled against the running balance, dates are
parsed and put back in chronological order. With --debug the output keeps
the original and corrected amount columns and a debug workbook is written
next to it.

Example:
  stmt-clean clean -i statement.csv -o statement_clean.csv --report json`,
	Run: cleanFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input statement (.csv or .xlsx)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file")
	Cmd.Flags().BoolVar(&debug, "debug", false, "Include original/corrected columns and write a debug workbook")
	Cmd.Flags().StringVar(&reportFormat, "report", "", "Write a summary report (json, xml or yaml)")
}

func cleanFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	c := root.GetContainer()
	if c == nil {
		logger.Fatal("Container not initialized")
		return
	}

	if err := validation.InputFile(inputFile); err != nil {
		logger.Fatalf("Invalid input: %v", err)
	}
	if err := validation.OutputFile(outputFile); err != nil {
		logger.Fatalf("Invalid output: %v", err)
	}
	if err := validation.ReportFormat(reportFormat); err != nil {
		logger.Fatalf("Invalid report format: %v", err)
	}

	opts := common.Options{
		Debug:        debug || c.GetConfig().Output.Debug,
		ReportFormat: reportFormat,
	}
	summary, err := common.ProcessFile(cmd.Context(), c, inputFile, outputFile, opts)
	if err != nil {
		logger.Fatalf("Error cleaning statement: %v", err)
	}

	if summary.OK() {
		logger.Info("Cleaning completed successfully!")
		return
	}
	logger.Warn("Cleaning completed, statement needs review",
		logging.Field{Key: "mismatches", Value: len(summary.Mismatches)},
		logging.Field{Key: "stage_errors", Value: len(summary.StageErrors)})
}
