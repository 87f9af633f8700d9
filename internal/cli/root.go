// Package cli implements the tempura command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nihi-lo/tempura/internal/config"
	"github.com/nihi-lo/tempura/internal/logging"
)

var (
	// Version information, set by main.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	nonInteractive bool
	noProgress     bool
	noHistory      bool

	appConfig *config.Config
	logger    zerolog.Logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "tempura",
	Short: "Create projects from templates",
	Long: `tempura creates new frontend projects from a catalog of templates.

Templates are looked up in .tempura/templates of the current directory, in the
directories listed under templates.dirs, in ~/.config/tempura/templates and in
/usr/share/tempura/templates, before falling back to the builtin set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tempura/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override logging.format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&jsonlOutput, "jsonl", false, "output in JSON Lines format")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail when input is missing")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress output")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record or read the history database")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command) error {
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Fix the configuration file or point --config at a valid one",
			NextStep: "tempura init --force",
		}
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	appConfig = cfg
	logger = logging.Component("cli")
	if used != "" {
		logger.Debug().Str("path", used).Msg("loaded config")
	}
	return nil
}

// GetConfig returns the loaded configuration, or defaults before load.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
