// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/stmt-clean/cmd/common"
	"fjacquet/stmt-clean/cmd/root"
	"fjacquet/stmt-clean/internal/container"
	"fjacquet/stmt-clean/internal/fileutils"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/tableio"
	"fjacquet/stmt-clean/internal/validation"
)

var (
	inputDir     string
	outputDir    string
	debug        bool
	reportFormat string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Batch process every statement table (.csv, .xlsx) found in an input directory
and write one cleaned CSV per file to another directory.

Files are cleaned independently; a file that fails is logged and skipped.

Example:
  stmt-clean batch --input-dir statements/ --output-dir cleaned/`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory holding the statements")
	Cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory receiving the cleaned files")
	Cmd.Flags().BoolVar(&debug, "debug", false, "Include original/corrected columns and write debug workbooks")
	Cmd.Flags().StringVar(&reportFormat, "report", "", "Write a summary report per file (json, xml or yaml)")
}

// Stats counts the outcome of a batch run.
type Stats struct {
	Found       int
	Processed   int
	Failed      int
	NeedsReview int
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	c := root.GetContainer()
	if c == nil {
		logger.Fatal("Container not initialized")
		return
	}

	if err := validation.InputDir(inputDir); err != nil {
		logger.Fatalf("Invalid input directory: %v", err)
	}
	if outputDir == "" {
		logger.Fatal("Output directory must be specified")
	}
	if err := validation.ReportFormat(reportFormat); err != nil {
		logger.Fatalf("Invalid report format: %v", err)
	}

	opts := common.Options{Debug: debug || c.GetConfig().Output.Debug, ReportFormat: reportFormat}
	stats, err := Run(cmd.Context(), c, inputDir, outputDir, opts)
	if err != nil {
		logger.Fatalf("Error during batch processing: %v", err)
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d of %d files cleaned.", stats.Processed, stats.Found),
		logging.Field{Key: "failed", Value: stats.Failed},
		logging.Field{Key: "needs_review", Value: stats.NeedsReview})
}

// Run cleans every supported file of inputDir into outputDir.
func Run(ctx context.Context, c *container.Container, inputDir, outputDir string, opts common.Options) (Stats, error) {
	logger := c.GetLogger()

	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return Stats{}, err
	}

	files, err := fileutils.ListFilesWithExtensions(inputDir, tableio.ExtCSV, tableio.ExtXLSX)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	stats := Stats{Found: len(files)}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: inputDir})
		return stats, nil
	}

	logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		out := fileutils.CleanOutputPath(file, outputDir)
		summary, err := common.ProcessFile(ctx, c, file, out, opts)
		if err != nil {
			stats.Failed++
			logger.WithError(err).Error("Failed to clean file",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}
		stats.Processed++
		if !summary.OK() {
			stats.NeedsReview++
		}
	}
	return stats, nil
}
