package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-clean/internal/chronology"
	"fjacquet/stmt-clean/internal/config"
	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
	"fjacquet/stmt-clean/internal/parsererror"
	"fjacquet/stmt-clean/internal/pipeline"
	"fjacquet/stmt-clean/internal/reconciler"
	"fjacquet/stmt-clean/internal/tableio"
)

const statement = "Date,Reference,Narration,Debit,Credit,Balance\n" +
	"03/01/2024,R2,rent,50.00,,150.00\n" +
	"02/01/2024,R1,salary,,100.00,200.00\n" +
	"01/01/2024,R0,opening,,,100.00\n"

type failingRunner struct{ err error }

func (f failingRunner) Run(context.Context, models.Table, string) (*pipeline.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, errors.New("exploded")
}

func setupTestApp(runner Runner) *fiber.App {
	logger := logging.NewMockLogger()
	if runner == nil {
		runner = pipeline.New(logger,
			chronology.NewRepairer(logger, chronology.DefaultOptions()),
			reconciler.NewReconciler(logger, reconciler.DefaultOptions()),
			nil,
			pipeline.Options{DebitSign: config.DebitSignNegative})
	}
	return NewApp(NewHandler(logger, runner, tableio.NewCodec(logger, ',')))
}

func decode(t *testing.T, body io.Reader) CleanResponse {
	t.Helper()
	var out CleanResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
}

func TestCleanEndpoint_CSVBody(t *testing.T) {
	app := setupTestApp(nil)

	req := httptest.NewRequest("POST", "/api/clean?name=jan.csv", strings.NewReader(statement))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp.Body)
	assert.True(t, out.Success)
	require.NotNil(t, out.Summary)
	assert.Equal(t, "jan.csv", out.Summary.Source)
	assert.True(t, out.Summary.Rotated)
	assert.True(t, out.Summary.AllCorrect)
	require.Len(t, out.Rows, 3)
	assert.Equal(t, "01/01/2024", out.Rows[0].Date)
	assert.Equal(t, "-50.00", out.Rows[2].Debit)
	assert.Equal(t, "0.00", out.Rows[2].Difference)
}

func TestCleanEndpoint_Multipart(t *testing.T) {
	app := setupTestApp(nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "feb.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(statement))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/clean", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp.Body)
	assert.Equal(t, "feb.csv", out.Summary.Source)
	assert.Len(t, out.Rows, 3)
}

func TestCleanEndpoint_BadRequests(t *testing.T) {
	app := setupTestApp(nil)

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"empty body", "", "text/csv"},
		{"whitespace body", "  \n", "text/csv"},
		{"multipart without file", "", "multipart/form-data; boundary=----test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/clean", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			out := decode(t, resp.Body)
			assert.False(t, out.Success)
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestCleanEndpoint_RunnerFailure(t *testing.T) {
	app := setupTestApp(failingRunner{})

	req := httptest.NewRequest("POST", "/api/clean", strings.NewReader(statement))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "exploded", decode(t, resp.Body).Error)
}

func TestCleanEndpoint_EmptyTableFromRunner(t *testing.T) {
	app := setupTestApp(failingRunner{err: fmt.Errorf("run: %w", parsererror.ErrEmptyTable)})

	req := httptest.NewRequest("POST", "/api/clean", strings.NewReader(statement))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, resp.Body).Error, "no header row")
}
