package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/sihui/internal/filter"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

// Printer renders command results
type Printer struct {
	out    io.Writer
	format string
	filter string
	query  string
}

// NewPrinter creates a printer; an unknown format falls back to text
func NewPrinter(out io.Writer, format, filterExpr, queryExpr string) *Printer {
	switch strings.ToLower(format) {
	case FormatJSON:
		format = FormatJSON
	case FormatYAML:
		format = FormatYAML
	default:
		format = FormatText
	}
	return &Printer{out: out, format: format, filter: filterExpr, query: queryExpr}
}

// Format returns the resolved output format
func (p *Printer) Format() string {
	return p.format
}

// Print writes v in the configured format after applying --filter and --query
func (p *Printer) Print(v any) error {
	var data []byte
	switch raw := v.(type) {
	case json.RawMessage:
		data = raw
	case []byte:
		data = raw
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		data = encoded
	}

	if p.filter != "" || p.query != "" {
		filtered, err := filter.Apply(data, p.filter, p.query)
		if err != nil {
			return err
		}
		data = filtered
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		// shell queries may emit anything
		_, err := fmt.Fprintln(p.out, string(data))
		return err
	}

	switch p.format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err := p.out.Write(buf.Bytes())
		return err
	default:
		if s, ok := doc.(string); ok {
			_, err := fmt.Fprintln(p.out, s)
			return err
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to format YAML: %w", err)
		}
		_, err = p.out.Write(out)
		return err
	}
}

// Success prints a confirmation line. Structured formats stay machine readable.
func (p *Printer) Success(message string) {
	if p.format != FormatText {
		_ = p.Print(map[string]any{"success": true, "message": message})
		return
	}
	fmt.Fprintln(p.out, successStyle.Render("✓")+" "+message)
}

// Line prints a label/value pair in text mode
func (p *Printer) Line(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", labelStyle.Render(label+":"), value)
}

// statusStyle picks the style for an HTTP status or health state
func statusStyle(ok, degraded bool) lipgloss.Style {
	switch {
	case ok:
		return successStyle
	case degraded:
		return warningStyle
	default:
		return errorStyle
	}
}
