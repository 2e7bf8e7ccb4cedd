package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/richardissailing/PyAccessibility/config"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "a11yscan",
	Short: "WCAG accessibility scanner for HTML pages",
	Long: `a11yscan evaluates HTML pages against a catalogue of WCAG
accessibility rules and reports the findings with a compliance score.

Pages can be scanned directly from a URL, a local file, or stdin, or
submitted to a Redis-backed queue processed by a11yscan workers.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a config file or directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error")
}

// loadConfig resolves configuration from the --config flag, environment,
// and defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.GetLogLevel() {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
