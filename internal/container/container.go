// Package container provides dependency injection for the stmt-clean
// application. It centralizes the creation and wiring of the cleaning
// stages and their collaborators.
package container

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"fjacquet/stmt-clean/internal/api"
	"fjacquet/stmt-clean/internal/changelog"
	"fjacquet/stmt-clean/internal/chronology"
	"fjacquet/stmt-clean/internal/config"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/pipeline"
	"fjacquet/stmt-clean/internal/reconciler"
	"fjacquet/stmt-clean/internal/report"
	"fjacquet/stmt-clean/internal/tableio"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	codec      *tableio.Codec
	repairer   *chronology.Repairer
	reconciler *reconciler.Reconciler
	recorder   *changelog.Recorder
	pipeline   *pipeline.Pipeline
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLoggerFromConfig(cfg))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	repairer := chronology.NewRepairer(logger, chronology.Options{
		MaxPasses:          cfg.Chronology.MaxPasses,
		MidpointMaxGapDays: cfg.Chronology.MidpointMaxGapDays,
		YearDriftMax:       cfg.Chronology.YearDriftMax,
	})

	rec := reconciler.NewReconciler(logger, reconciler.Options{
		AdjustBand: decimal.NewFromFloat(cfg.Reconcile.AdjustBand),
		Tolerance:  decimal.NewFromFloat(cfg.Reconcile.Tolerance),
	})

	recorder := changelog.NewRecorder(cfg.ChangeLog.Dir, cfg.ChangeLog.Enabled, logger)

	p := pipeline.New(logger, repairer, rec, recorder, pipeline.Options{
		DebitSign: cfg.Amounts.DebitSign,
	})

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldDelimiter, Value: cfg.CSV.Delimiter},
		logging.Field{Key: "changelog_enabled", Value: recorder.Enabled()},
		logging.Field{Key: "debit_sign", Value: cfg.Amounts.DebitSign})

	return &Container{
		logger:     logger,
		config:     cfg,
		codec:      tableio.NewCodec(logger, cfg.DelimiterRune()),
		repairer:   repairer,
		reconciler: rec,
		recorder:   recorder,
		pipeline:   p,
		generator:  report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCodec returns the table reader/writer.
func (c *Container) GetCodec() *tableio.Codec {
	return c.codec
}

// GetPipeline returns the cleaning pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetRepairer returns the chronology repairer.
func (c *Container) GetRepairer() *chronology.Repairer {
	return c.repairer
}

// GetReconciler returns the balance reconciler.
func (c *Container) GetReconciler() *reconciler.Reconciler {
	return c.reconciler
}

// GetRecorder returns the date change recorder.
func (c *Container) GetRecorder() *changelog.Recorder {
	return c.recorder
}

// GetReportGenerator returns the summary report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// NewAPI builds the HTTP app serving the pipeline.
func (c *Container) NewAPI() *fiber.App {
	return api.NewApp(api.NewHandler(c.logger, c.pipeline, c.codec))
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
