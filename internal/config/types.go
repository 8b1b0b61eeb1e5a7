package config

import "time"

// Config represents the fanout configuration file structure
type Config struct {
	// Defaults contains default settings for dispatch runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty" mapstructure:"defaults"`

	// Commands is the named command registry: targets can be dispatched
	// against a command by name instead of a script path
	Commands map[string]CommandSpec `yaml:"commands,omitempty" json:"commands,omitempty" mapstructure:"commands"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Throttle is the maximum number of concurrent task instances
	Throttle int `yaml:"throttle,omitempty" json:"throttle,omitempty" mapstructure:"throttle"`

	// PollInterval is the sleep between completion checks
	PollInterval time.Duration `yaml:"pollInterval,omitempty" json:"pollInterval,omitempty" mapstructure:"pollInterval"`

	// MaxWait is the wait budget before a task is evicted
	MaxWait time.Duration `yaml:"maxWait,omitempty" json:"maxWait,omitempty" mapstructure:"maxWait"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}

// CommandSpec describes one entry of the named command registry
type CommandSpec struct {
	// Path is the executable to run. If empty, the registry name is
	// looked up on PATH instead.
	Path string `yaml:"path,omitempty" json:"path,omitempty" mapstructure:"path"`

	// Args are fixed arguments placed before the target
	Args []string `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`

	// Env is extra environment for every invocation
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty" mapstructure:"env"`

	// Description is a free-form note shown by `fanout commands list`
	Description string `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
}
