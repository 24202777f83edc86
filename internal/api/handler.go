// Package api exposes the cleaning pipeline over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
	"fjacquet/stmt-clean/internal/pipeline"
	"fjacquet/stmt-clean/internal/report"
	"fjacquet/stmt-clean/internal/tableio"
)

const defaultSource = "upload.csv"

// Runner cleans one table.
type Runner interface {
	Run(ctx context.Context, table models.Table, source string) (*pipeline.Result, error)
}

// CleanResponse is the JSON body of POST /api/clean.
type CleanResponse struct {
	Success bool               `json:"success"`
	Error   string             `json:"error,omitempty"`
	Summary *report.Summary    `json:"summary,omitempty"`
	Rows    []tableio.CleanRow `json:"rows"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	logger logging.Logger
	runner Runner
	codec  *tableio.Codec
}

// NewHandler creates a Handler.
func NewHandler(logger logging.Logger, runner Runner, codec *tableio.Codec) *Handler {
	return &Handler{logger: logger, runner: runner, codec: codec}
}

// NewApp builds the fiber app with every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "stmt-clean",
		DisableStartupMessage: true,
		BodyLimit:             32 << 20,
	})
	app.Get("/api/health", HandleHealth)
	app.Post("/api/clean", h.HandleClean)
	return app
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "engine": "fiber"})
}

// HandleClean runs the pipeline on an uploaded table. The table is either
// the raw request body (CSV) or the multipart field "file" (CSV or XLSX).
func (h *Handler) HandleClean(c *fiber.Ctx) error {
	data, source, err := h.readUpload(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	var table models.Table
	if strings.EqualFold(filepath.Ext(source), tableio.ExtXLSX) {
		table, err = h.codec.ReadXLSX(data)
	} else {
		table, err = h.codec.ReadCSV(bytes.NewReader(data))
	}
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("unreadable table: %v", err))
	}

	res, err := h.runner.Run(c.UserContext(), table, source)
	if err != nil {
		h.logger.WithError(err).Error("Clean request failed",
			logging.Field{Key: logging.FieldFile, Value: source})
		if errors.Is(err, parsererror.ErrEmptyTable) {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(CleanResponse{
		Success: true,
		Summary: res.Summary,
		Rows:    tableio.CleanRows(res.Ledger),
	})
}

func (h *Handler) readUpload(c *fiber.Ctx) ([]byte, string, error) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", errors.New("no file uploaded, use form field 'file'")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read upload: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, "", errors.New("uploaded file is empty")
		}
		return data, fh.Filename, nil
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, "", errors.New("request body is empty")
	}
	source := c.Query("name", defaultSource)
	return append([]byte(nil), body...), source, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(CleanResponse{Success: false, Error: msg, Rows: []tableio.CleanRow{}})
}
