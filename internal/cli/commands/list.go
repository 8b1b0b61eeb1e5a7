package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmcmcm/fanout/internal/config"
	"github.com/bmcmcm/fanout/internal/output"
)

// newListCmd creates the commands list command
func newListCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered commands",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")

	return cmd
}

func runList(cmd *cobra.Command, outputFormat string) error {
	manager := config.NewManager(viper.GetString("config"))
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := manager.CommandNames()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "No commands registered")
		return nil
	}

	// Determine output format
	if outputFormat == "" {
		outputFormat = viper.GetString("output")
	}
	if outputFormat == "" {
		outputFormat = "table"
	}

	switch outputFormat {
	case "json":
		formatter := output.NewFormatter(output.FormatJSON)
		return formatter.Format(os.Stdout, cfg.Commands)
	case "yaml":
		formatter := output.NewFormatter(output.FormatYAML)
		return formatter.Format(os.Stdout, cfg.Commands)
	default:
		return printCommandTable(names, cfg.Commands)
	}
}

func printCommandTable(names []string, registry map[string]config.CommandSpec) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "PATH", "ARGS", "DESCRIPTION"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, name := range names {
		spec := registry[name]
		path := spec.Path
		if path == "" {
			// Resolved from PATH at run time
			path = name
		}
		table.Append([]string{name, path, strings.Join(spec.Args, " "), spec.Description})
	}

	table.Render()
	return nil
}
