package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LogConfig holds settings for the diagnostic log file.
type LogConfig struct {
	// Level is the minimum level written to the log ("debug", "info", ...).
	Level string `mapstructure:"level" yaml:"level"`

	// File is the path of the rotated log file. Empty disables file logging.
	File string `mapstructure:"file" yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is how many rotated files are kept.
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DefaultProvider is the provider preselected in the interactive menu.
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"`

	// PollIntervalSec is how often (in seconds) the inbox is checked.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// MaxHistoryEntries caps the number of messages kept in history.
	MaxHistoryEntries int `mapstructure:"max_history_entries" yaml:"max_history_entries"`

	// SaveMessages controls whether received messages are written to history.
	SaveMessages bool `mapstructure:"save_messages" yaml:"save_messages"`

	// DisplayMode selects rich (styled panels) or plain output.
	DisplayMode string `mapstructure:"display_mode" yaml:"display_mode"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns the directory holding the config file, history database
// and credential files, located at ~/.config/tempmail-watcher.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tempmail-watcher")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultHistoryPath returns the default path for the history database.
func DefaultHistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DefaultProvider:   string(ProviderMailTM),
		PollIntervalSec:   5,
		MaxHistoryEntries: 50,
		SaveMessages:      true,
		DisplayMode:       DisplayRich,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("default_provider", string(ProviderMailTM))
	v.SetDefault("poll_interval_sec", 5)
	v.SetDefault("max_history_entries", 50)
	v.SetDefault("display_mode", DisplayRich)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if !cfg.SaveMessages {
		// Viper unmarshals missing bools as false; treat unset as true.
		if !v.IsSet("save_messages") {
			cfg.SaveMessages = true
		}
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = 5
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("default_provider", cfg.DefaultProvider)
	v.Set("poll_interval_sec", cfg.PollIntervalSec)
	v.Set("max_history_entries", cfg.MaxHistoryEntries)
	v.Set("save_messages", cfg.SaveMessages)
	v.Set("display_mode", cfg.DisplayMode)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
