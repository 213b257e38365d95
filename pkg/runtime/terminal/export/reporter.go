package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

var formats = []Format{FormatMarkdown, FormatTable, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q, expected one of %v", s, formats)
}

// Reporter renders cost reports and region comparisons in one format.
type Reporter struct {
	writer io.Writer
	format Format
}

func NewReporter(writer io.Writer, format Format) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if format == "" {
		format = FormatMarkdown
	}
	return &Reporter{writer: writer, format: format}
}

func (r *Reporter) Handle(report *domain.CostReport) error {
	switch r.format {
	case FormatTable:
		return writeReportTable(r.writer, report)
	case FormatJSON:
		return writeJSON(r.writer, report)
	case FormatYAML:
		return writeYAML(r.writer, report)
	}
	return writeMarkdown(r.writer, report)
}

func (r *Reporter) HandleComparison(comparison *domain.RegionComparison) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.writer, comparison)
	case FormatYAML:
		return writeYAML(r.writer, comparison)
	case FormatMarkdown:
		return writeComparisonMarkdown(r.writer, comparison)
	}
	return writeComparisonTable(r.writer, comparison)
}

// HandleValue writes any value in the structured formats, and as indented
// JSON for the human-readable ones.
func (r *Reporter) HandleValue(v any) error {
	if r.format == FormatYAML {
		return writeYAML(r.writer, v)
	}
	return writeJSON(r.writer, v)
}
