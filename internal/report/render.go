package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/anova-cli/internal/anova"
	"github.com/KaramelBytes/anova-cli/internal/utils"
)

// Format names an output encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts markdown|md, html, json, yaml|yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (use markdown|html|json|yaml)", s)
	}
}

// Ext returns the file extension used when saving a report.
func (f Format) Ext() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Render encodes res in the given format.
func Render(format Format, name, runID string, res *anova.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	switch format {
	case FormatMarkdown, "":
		return []byte(Markdown(name, res)), nil
	case FormatHTML:
		return markdown.ToHTML([]byte(Markdown(name, res)), nil, nil), nil
	case FormatJSON:
		return utils.JSONIndent(NewRecord(name, runID, res))
	case FormatYAML:
		b, err := yaml.Marshal(NewRecord(name, runID, res))
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
