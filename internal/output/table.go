package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/bmcmcm/fanout/internal/executor"
)

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		// Fallback to simple string representation
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatReport outputs a dispatch report as a table followed by a
// summary line.
func (f *TableFormatter) FormatReport(w io.Writer, report *executor.Report) error {
	if len(report.Results) == 0 && len(report.Errors) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)

	headers := []string{"TARGET", "STATUS", "DURATION", "OUTPUT"}
	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, result := range report.Results {
		table.Append(f.formatResultRow(result, colors))
	}

	table.Render()

	if len(report.Errors) > 0 {
		fmt.Fprintln(w, "")
		for _, e := range report.Errors {
			line := fmt.Sprintf("rejected: %v", e)
			if !colors.Disabled {
				line = colors.Warning(line)
			}
			fmt.Fprintln(w, line)
		}
	}

	f.printSummary(w, report, colors)

	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(result executor.Result, colors *ColorScheme) []string {
	target := fmt.Sprintf("%v", result.Target)
	if !colors.Disabled {
		target = colors.Target(target)
	}

	status := "Success"
	if result.Err != nil {
		status = "Failed"
	}
	if !colors.Disabled {
		status = colors.StatusColor(result.Err != nil)(status)
	}

	duration := result.Duration.String()
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	out := ""
	if result.Err != nil {
		out = result.Err.Error()
	} else if result.Output != nil {
		out = fmt.Sprintf("%v", result.Output)
	}
	// Multi-line output would wreck the table; keep the first line and
	// truncate unless wide mode is on.
	if idx := strings.IndexByte(out, '\n'); idx != -1 {
		out = out[:idx] + "..."
	}
	if !f.options.Wide && len(out) > 50 {
		out = out[:47] + "..."
	}

	return []string{target, status, duration, out}
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the report
func (f *TableFormatter) printSummary(w io.Writer, report *executor.Report, colors *ColorScheme) {
	summary := executor.Summarize(report)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d successful", summary.Successful)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}
	parts := []string{successText}

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if !colors.Disabled && summary.Failed > 0 {
		failedText = colors.Error(failedText)
	}
	parts = append(parts, failedText)

	if summary.Rejected > 0 {
		text := fmt.Sprintf("%d rejected", summary.Rejected)
		if !colors.Disabled {
			text = colors.Warning(text)
		}
		parts = append(parts, text)
	}

	if summary.Evicted > 0 {
		text := fmt.Sprintf("%d evicted", summary.Evicted)
		if !colors.Disabled {
			text = colors.Warning(text)
		}
		parts = append(parts, text)
	}

	parts = append(parts, fmt.Sprintf("total %s", summary.Duration.Round(time.Millisecond)))

	fmt.Fprintln(w, strings.Join(parts, ", "))
}
