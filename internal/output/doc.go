// Package output provides formatters for displaying dispatch reports.
//
// The package supports table, JSON and YAML formats behind a unified
// Formatter interface, with automatic TTY color detection and
// functional options (no-color, no-headers, wide mode).
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	formatter.FormatReport(os.Stdout, report)
//
// The table formatter renders one row per completed task plus a
// summary line; rejected targets are listed separately since they
// never produced a result. JSON and YAML render the same structure
// machine-readably for scripting.
package output
