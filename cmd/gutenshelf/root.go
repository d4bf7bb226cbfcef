package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/gutenshelf/internal/config"
	"github.com/jackzampolin/gutenshelf/internal/home"
	"github.com/jackzampolin/gutenshelf/internal/report"
	"github.com/jackzampolin/gutenshelf/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "gutenshelf",
	Short: "Curated public-domain ebook library builder",
	Long: `Gutenshelf builds a local library of public-domain ebooks from
curated category lists.

For every book in every category it:
  - Downloads the EPUB from Project Gutenberg, falling back to the Internet Archive
  - Validates the download and checks its title and author
  - Scores readability (Flesch-Kincaid grade mapped to a CEFR band)
  - Detects literary themes
  - Records the outcome in <category>/catalog.csv

Books already cataloged as complete are skipped unless --force is given.`,
	Version:      version.GitRelease,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: <home>/config.yaml, ./config.yaml or ~/.gutenshelf/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "library root directory (default: library_root from config, else ~/.gutenshelf)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default: log_level from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := report.ParseFormat(outputFormat); err != nil {
			return err
		}
		report.SetOutputFormat(outputFormat)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// env holds what every command needs after flags and config are resolved.
type env struct {
	cfg    *config.Manager
	home   *home.Dir
	logger *slog.Logger
}

// setup loads configuration, resolves the library root and builds the
// logger. Logs go to stderr so stdout stays parseable.
func setup() (*env, error) {
	path := cfgFile
	if path == "" && homeDir != "" {
		if h, err := home.New(homeDir); err == nil && h.ConfigExists() {
			path = h.ConfigPath()
		}
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	root := homeDir
	if root == "" {
		root = cfg.LibraryRoot
	}
	h, err := home.New(root)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return nil, err
	}
	if used := mgr.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", "file", used)
	}

	return &env{cfg: mgr, home: h, logger: logger}, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}
