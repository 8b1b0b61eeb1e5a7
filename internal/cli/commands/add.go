package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmcmcm/fanout/internal/config"
)

// newAddCmd creates the commands add command
func newAddCmd() *cobra.Command {
	var (
		path        string
		cmdArgs     []string
		envPairs    []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a named command",
		Long: `Register a named command in the fanout config file.

If --path is omitted, the command name is resolved from PATH when it
is dispatched.`,
		Example: `  # Register a backup command
  fanout commands add backup --path /usr/local/bin/backup.sh --description "nightly backup"

  # Register with fixed leading arguments and environment
  fanout commands add deploy --path ./deploy --cmd-arg --force --env REGION=us-east-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args[0], path, cmdArgs, envPairs, description)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "executable path (default resolves NAME from PATH)")
	cmd.Flags().StringArrayVar(&cmdArgs, "cmd-arg", nil, "fixed argument passed before the target (repeatable)")
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, "environment variable as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&description, "description", "", "human-readable description")

	return cmd
}

func runAdd(name, path string, cmdArgs, envPairs []string, description string) error {
	manager := config.NewManager(viper.GetString("config"))
	if _, err := manager.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	env := make(map[string]string, len(envPairs))
	for _, pair := range envPairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return fmt.Errorf("invalid --env %q: expected KEY=VALUE", pair)
		}
		env[key] = value
	}

	manager.SetCommand(name, config.CommandSpec{
		Path:        path,
		Args:        cmdArgs,
		Env:         env,
		Description: description,
	})

	if err := manager.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	slog.Info("command registered", "name", name)
	return nil
}
