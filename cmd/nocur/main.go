// Command nocur drives agent worker sessions from the terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "nocur",
	Short: "Agent session engine",
	Long: `Nocur manages long-lived agent worker sessions: it spawns the worker,
streams commands to it, and normalizes its output into a single
line-delimited JSON event stream.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveProjectDir finds the project directory from flags or the cwd.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return cwd, nil
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
