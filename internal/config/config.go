package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".fanout"
	defaultConfigDir  = ".fanout"
)

// Manager handles fanout configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{},
	}
}

// Load loads the fanout configuration from file
func (m *Manager) Load() (*Config, error) {
	// Set up config file path
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		// Try multiple locations
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// Check ~/.fanout/config.yaml
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		// Check ~/.fanout.yaml
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// Set environment variable support
	m.viper.SetEnvPrefix("FANOUT")
	m.viper.AutomaticEnv()

	// Initialize config to ensure defaults are set even for empty configs
	m.config = &Config{}

	// Read config file
	if err := m.viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// File doesn't exist, apply defaults and return
		m.applyDefaults()
		return m.config, nil
	}

	// Unmarshal into config struct
	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults
	m.applyDefaults()

	return m.config, nil
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(home, defaultConfigDir)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		m.configPath = filepath.Join(configDir, "config.yaml")
	}

	// Ensure directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config to file
	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// GetCommand returns the registry entry for a named command
func (m *Manager) GetCommand(name string) (*CommandSpec, bool) {
	if m.config.Commands == nil {
		return nil, false
	}

	spec, ok := m.config.Commands[name]
	return &spec, ok
}

// SetCommand sets or updates a named command registry entry
func (m *Manager) SetCommand(name string, spec CommandSpec) {
	if m.config.Commands == nil {
		m.config.Commands = make(map[string]CommandSpec)
	}

	m.config.Commands[name] = spec
	m.viper.Set("commands", m.config.Commands)
}

// RemoveCommand removes a named command registry entry
func (m *Manager) RemoveCommand(name string) {
	if m.config.Commands == nil {
		return
	}

	delete(m.config.Commands, name)
	m.viper.Set("commands", m.config.Commands)
}

// CommandNames returns all registry entry names, sorted
func (m *Manager) CommandNames() []string {
	if m.config.Commands == nil {
		return nil
	}

	names := make([]string, 0, len(m.config.Commands))
	for name := range m.config.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// applyDefaults sets default values for configuration
func (m *Manager) applyDefaults() {
	if m.config == nil {
		return
	}

	if m.config.Defaults.Throttle == 0 {
		m.config.Defaults.Throttle = 8
	}

	if m.config.Defaults.PollInterval == 0 {
		m.config.Defaults.PollInterval = 200 * time.Millisecond
	}

	if m.config.Defaults.MaxWait == 0 {
		m.config.Defaults.MaxWait = 60 * time.Second
	}

	if m.config.Defaults.OutputFormat == "" {
		m.config.Defaults.OutputFormat = "table"
	}
}
