// Package config loads tempura configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (TEMPURA_LOGGING_LEVEL, ...).
const EnvPrefix = "TEMPURA"

// Config is the root configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Create    CreateConfig    `mapstructure:"create"`
	History   HistoryConfig   `mapstructure:"history"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// TemplatesConfig controls template discovery.
type TemplatesConfig struct {
	Dirs    []string `mapstructure:"dirs"`
	Default string   `mapstructure:"default"`
}

// CreateConfig holds defaults for the create command.
type CreateConfig struct {
	Overwrite bool `mapstructure:"overwrite"`
}

// HistoryConfig controls the materialization history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TUIConfig controls the interactive picker.
type TUIConfig struct {
	Theme string `mapstructure:"theme"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Templates: TemplatesConfig{
			Default: "vite-react-tw-ts",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultDataDir(), "history.db"),
		},
		TUI: TUIConfig{
			Theme: "default",
		},
	}
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q (want console or json)", c.Logging.Format)
	}
	switch c.TUI.Theme {
	case "default", "high-contrast":
	default:
		return fmt.Errorf("invalid tui.theme %q", c.TUI.Theme)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}

// Load reads configuration. An explicit path must exist; otherwise the default
// location is used when present. Environment variables override file values.
func Load(path string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
		used = path
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("read config: %w", err)
			}
		} else {
			used = v.ConfigFileUsed()
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	cfg.History.Path = expandHome(cfg.History.Path)
	for i, dir := range cfg.Templates.Dirs {
		cfg.Templates.Dirs[i] = expandHome(dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("templates.dirs", []string{})
	v.SetDefault("templates.default", def.Templates.Default)
	v.SetDefault("create.overwrite", def.Create.Overwrite)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.path", def.History.Path)
	v.SetDefault("tui.theme", def.TUI.Theme)
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/tempura or ~/.config/tempura.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tempura")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".tempura")
	}
	return filepath.Join(home, ".config", "tempura")
}

// DefaultDataDir returns $XDG_DATA_HOME/tempura or ~/.local/share/tempura.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tempura")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".tempura")
	}
	return filepath.Join(home, ".local", "share", "tempura")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
