package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmcmcm/fanout/internal/config"
	"github.com/bmcmcm/fanout/internal/util"
)

// newRemoveCmd creates the commands remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove NAME",
		Short:   "Remove a registered command",
		Aliases: []string{"rm", "delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args[0])
		},
	}

	return cmd
}

func runRemove(name string) error {
	manager := config.NewManager(viper.GetString("config"))
	if _, err := manager.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, ok := manager.GetCommand(name); !ok {
		return fmt.Errorf("%w: %q", util.ErrCommandNotFound, name)
	}

	manager.RemoveCommand(name)

	if err := manager.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	slog.Info("command removed", "name", name)
	return nil
}
