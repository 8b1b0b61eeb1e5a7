package run

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bmcmcm/fanout/internal/callable"
	"github.com/bmcmcm/fanout/internal/config"
	"github.com/bmcmcm/fanout/internal/executor"
	"github.com/bmcmcm/fanout/internal/output"
	"github.com/bmcmcm/fanout/internal/util"
)

// options collects the run command flags
type options struct {
	script  string
	inline  string
	command string

	targetsFile string
	args        []string

	throttle          int
	pollInterval      time.Duration
	maxWait           time.Duration
	perTargetDeadline bool

	modulePath string
	modules    []string

	wide      bool
	noHeaders bool
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run a script, inline block, or registered command against targets",
		Long: `Run one unit of work against every target concurrently.

Exactly one of --script, --inline, or --command selects what to run.
Targets come from positional arguments, --targets-file, or both. The
work receives the target as its first argument; extra --arg key=value
pairs follow as key=value and are exported as FANOUT_ARG_<KEY>.

At most --throttle executions run at once. The engine polls for
completions without blocking and evicts the oldest pending target once
it has been waiting longer than --max-wait.`,
		Example: `  # Ping three hosts, two at a time
  fanout run --inline 'ping -c1 "$1"' -p 2 web-1 web-2 web-3

  # Run a script against targets from a file
  fanout run --script ./check.sh --targets-file hosts.txt

  # Run a registered command with extra arguments
  fanout run --command backup --arg mode=full db-1 db-2

  # Source helper modules before the inline block
  fanout run --inline 'probe "$1"' --module-path ./lib host-a host-b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.script, "script", "", "path to a script to run per target")
	cmd.Flags().StringVar(&opts.inline, "inline", "", "inline shell block to run per target")
	cmd.Flags().StringVar(&opts.command, "command", "", "name of a registered command to run per target")

	cmd.Flags().StringVar(&opts.targetsFile, "targets-file", "", "file with one target per line (- for stdin)")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "extra argument as key=value (repeatable)")

	cmd.Flags().IntVarP(&opts.throttle, "throttle", "p", 0, "maximum concurrent executions")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", 0, "completion poll interval")
	cmd.Flags().DurationVar(&opts.maxWait, "max-wait", 0, "how long the oldest pending target may wait before eviction")
	cmd.Flags().BoolVar(&opts.perTargetDeadline, "per-target-deadline", false, "apply --max-wait to every target instead of only the oldest")

	cmd.Flags().StringVar(&opts.modulePath, "module-path", "", "directory whose *.sh files are sourced before each execution")
	cmd.Flags().StringArrayVar(&opts.modules, "module", nil, "additional module file to source (repeatable)")

	cmd.Flags().BoolVar(&opts.wide, "wide", false, "do not truncate the output column")
	cmd.Flags().Bool("no-headers", false, "omit table headers")

	return cmd
}

func runDispatch(cmd *cobra.Command, args []string, opts *options) error {
	logger := slog.Default()
	ctx := cmd.Context()

	// Load configuration for defaults and the command registry
	cfgPath := viper.GetString("config")
	manager := config.NewManager(cfgPath)
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec := callable.Spec{
		Script:  opts.script,
		Inline:  opts.inline,
		Command: opts.command,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	work, err := callable.Resolve(spec, cfg.Commands)
	if err != nil {
		return err
	}

	targets, err := collectTargets(args, opts.targetsFile)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return util.ErrNoTargets
	}

	argMap, err := parseArgs(opts.args)
	if err != nil {
		return err
	}

	env, err := callable.NewEnvironment(opts.modulePath, opts.modules, argMap)
	if err != nil {
		return err
	}

	engineCfg := engineConfig(cmd, opts, cfg, env, logger)

	engine, err := executor.New(engineCfg)
	if err != nil {
		return err
	}

	logger.Info("dispatching",
		"kind", work.Kind(),
		"name", work.Name(),
		"targets", len(targets),
		"throttle", engineCfg.Concurrency)

	items := make([]interface{}, len(targets))
	for i, t := range targets {
		items[i] = t
	}

	report, err := engine.Run(ctx, items, callable.Task(work))
	if err != nil {
		return err
	}

	if err := printReport(cmd, opts, cfg, report); err != nil {
		return err
	}

	if failed := executor.CountFailed(report.Results); failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, report.Submitted)
	}

	return nil
}

// engineConfig merges flag values over config-file defaults
func engineConfig(cmd *cobra.Command, opts *options, cfg *config.Config, env *callable.Environment, logger *slog.Logger) executor.Config {
	engineCfg := executor.DefaultConfig()
	engineCfg.Logger = logger
	engineCfg.ContextInit = callable.Init(env)

	if cfg.Defaults.Throttle > 0 {
		engineCfg.Concurrency = cfg.Defaults.Throttle
	}
	if cfg.Defaults.PollInterval > 0 {
		engineCfg.PollInterval = cfg.Defaults.PollInterval
	}
	if cfg.Defaults.MaxWait > 0 {
		engineCfg.MaxWait = cfg.Defaults.MaxWait
	}

	if cmd.Flags().Changed("throttle") {
		engineCfg.Concurrency = opts.throttle
	}
	if cmd.Flags().Changed("poll-interval") {
		engineCfg.PollInterval = opts.pollInterval
	}
	if cmd.Flags().Changed("max-wait") {
		engineCfg.MaxWait = opts.maxWait
	}
	if opts.perTargetDeadline {
		engineCfg.TimeoutMode = executor.TimeoutPerTask
	}

	if viper.GetBool("verbose") {
		engineCfg.Progress = func(s executor.Snapshot) {
			logger.Debug("progress",
				"pending", s.Pending,
				"active", s.Active,
				"completed", s.Completed,
				"evicted", s.Evicted)
		}
	}

	return engineCfg
}

// collectTargets gathers targets from positional args and the targets file
func collectTargets(args []string, targetsFile string) ([]string, error) {
	targets := append([]string{}, args...)

	if targetsFile != "" {
		fromFile, err := util.ReadTargetsFile(targetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read targets file: %w", err)
		}
		targets = append(targets, fromFile...)
	}

	return util.NormalizeTargets(targets), nil
}

// parseArgs parses repeated --arg key=value flags into a map
func parseArgs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	args := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}

func printReport(cmd *cobra.Command, opts *options, cfg *config.Config, report *executor.Report) error {
	format := viper.GetString("output")
	if format == "" {
		format = cfg.Defaults.OutputFormat
	}
	if format == "" {
		format = "table"
	}

	noColor := viper.GetBool("no-color") || cfg.Defaults.NoColor
	noHeaders, _ := cmd.Flags().GetBool("no-headers")

	formatter := output.NewFormatter(output.Format(format),
		output.WithNoColor(noColor),
		output.WithNoHeaders(noHeaders),
		output.WithWide(opts.wide))

	return formatter.FormatReport(os.Stdout, report)
}
