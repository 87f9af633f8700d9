package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "vite-react-tw-ts", cfg.Templates.Default)
	require.True(t, cfg.History.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "tui.theme"},
		{"history without path", func(c *Config) { c.History.Path = " " }, "history.path"},
		{"history disabled without path", func(c *Config) {
			c.History.Enabled = false
			c.History.Path = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `logging:
  level: debug
templates:
  dirs:
    - /opt/templates
  default: nextjs-approuter-ts
create:
  overwrite: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, used, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.Equal(t, []string{"/opt/templates"}, cfg.Templates.Dirs)
	require.Equal(t, "nextjs-approuter-ts", cfg.Templates.Default)
	require.True(t, cfg.Create.Overwrite)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, DefaultConfig().Logging, cfg.Logging)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TEMPURA_LOGGING_LEVEL", "error")
	t.Setenv("TEMPURA_HISTORY_ENABLED", "false")

	cfg, _, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Logging.Level)
	require.False(t, cfg.History.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, filepath.Join("/custom/config", "tempura"), DefaultConfigDir())
}

func TestFileTemplate(t *testing.T) {
	require.True(t, strings.HasPrefix(FileTemplate, "# Tempura Configuration File"))

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(FileTemplate), &parsed))
	for _, section := range []string{"logging", "templates", "create", "history", "tui"} {
		require.Contains(t, parsed, section)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(FileTemplate), 0644))
	_, _, err := Load(path)
	require.NoError(t, err)
}
