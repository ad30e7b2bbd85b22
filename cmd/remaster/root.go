package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/remaster/internal/config"
)

var version = "dev"

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

// errInterrupted marks a run aborted by the user.
var errInterrupted = errors.New("interrupted")

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "remaster",
	Short: "Batch audio collection converter",
	Long: `remaster - batch audio collection converter

Transcodes (or copies) audio files, directory trees, and playlists into
a destination tree laid out by metadata-driven naming templates, then
regenerates any input playlists against the new layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, errInterrupted) {
			fmt.Fprintln(os.Stderr, "interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInterrupted):
		return exitInterrupted
	default:
		return exitError
	}
}

// loadConfig loads the file named by --config, or the default path when
// the flag is unset. A missing default file falls back to built-in
// defaults; a missing explicitly named file is an error.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		return config.Load(configPath)
	}
	return config.Load(config.DefaultPath())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("remaster {{.Version}}\n")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(historyCmd)
}

// newLogger builds the CLI logger honoring --verbose and the configured
// log level.
func newLogger(configLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch configLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
