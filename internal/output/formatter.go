package output

import (
	"io"

	"github.com/bmcmcm/fanout/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatReport outputs a dispatch report to the writer
	FormatReport(w io.Writer, report *executor.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with the full task output column
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// reportItems converts a report's results and rejections into ordered
// maps shared by the JSON and YAML formatters.
func reportItems(report *executor.Report) map[string]interface{} {
	results := make([]map[string]interface{}, len(report.Results))
	for i, r := range report.Results {
		item := map[string]interface{}{
			"target":   r.Target,
			"duration": r.Duration.String(),
		}
		if r.Err != nil {
			item["status"] = "failed"
			item["error"] = r.Err.Error()
		} else {
			item["status"] = "success"
			item["output"] = r.Output
		}
		results[i] = item
	}

	rejected := make([]map[string]interface{}, len(report.Errors))
	for i, e := range report.Errors {
		rejected[i] = map[string]interface{}{
			"index": e.Index,
			"error": e.Err.Error(),
		}
	}

	return map[string]interface{}{
		"results":  results,
		"rejected": rejected,
		"evicted":  report.Evicted,
		"duration": report.Duration.String(),
	}
}
