package commands

import (
	"github.com/spf13/cobra"
)

// NewCommandsCmd creates the command registry management command
func NewCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the named command registry",
		Long: `Manage the named command registry in the fanout config file.

Registered commands can be dispatched against targets with
"fanout run --command NAME".`,
	}

	// Add subcommands
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}
