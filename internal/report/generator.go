package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/stmt-clean/internal/logging"
	"fjacquet/stmt-clean/internal/models"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// Formats lists the supported report formats.
var Formats = []string{FormatJSON, FormatXML, FormatYAML}

// IsSupportedFormat reports whether format names a known report format.
func IsSupportedFormat(format string) bool {
	for _, f := range Formats {
		if f == strings.ToLower(format) {
			return true
		}
	}
	return false
}

// Generator renders summaries in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate renders the summary as json, xml or yaml.
func (g *Generator) Generate(summary *Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSON(summary)
	case FormatXML:
		return g.generateXML(summary)
	case FormatYAML:
		return g.generateYAML(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders the summary and writes it next to the cleaned output.
// It returns the path written.
func (g *Generator) WriteFile(summary *Summary, format, outputFile string) (string, error) {
	data, err := g.Generate(summary, format)
	if err != nil {
		return "", err
	}
	path := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".report." + strings.ToLower(format)
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("Report written", logging.Field{Key: logging.FieldOutputFile, Value: path})
	return path, nil
}

func (g *Generator) generateJSON(summary *Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateXML(summary *Summary) ([]byte, error) {
	out, err := xml.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal XML report")
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}
	return []byte(xml.Header + string(out)), nil
}

func (g *Generator) generateYAML(summary *Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
