// Package main is the entry point for the chatwire CLI.
//
// Chatwire can be used either as a library (SDK) or as a standalone binary
// for talking to a chat-task backend from the terminal. This CLI provides
// the standalone binary approach.
//
// Usage:
//
//	chatwire login -c config.yaml           # Authenticate and store the session
//	chatwire send -c config.yaml "hello"    # Submit a message and wait for it
//	chatwire task wait <task-id>            # Wait for an existing task
//	chatwire version                        # Show version info
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/chatwire"
	"github.com/jpalmerr/chatwire/config"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatwire",
	Short: "A client for chat backends with asynchronous task processing",
	Long: `Chatwire talks to chat-style backends that process messages and
attachments asynchronously: submitted work is acknowledged with a task id,
and chatwire polls the task to completion.

Quick start:
  1. chatwire login --server https://chat.example.com/api
  2. chatwire send --conversation 1 "summarise this thread"

The session (bearer credential and cached profile) is stored under
~/.config/chatwire and restored on every invocation until it expires or
you run chatwire logout.`,
	// No Run/RunE means this just shows help when called without subcommands
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	rootCmd.PersistentFlags().String("server", "", "backend base URL (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this chatwire binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatwire %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

// newLogger creates a text logger for CLI use. Pipeline and poll internals
// log at debug level; keep the default at info so normal runs stay quiet.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// cliNotifier prints the SDK's user-visible notices to stderr.
type cliNotifier struct{}

func (cliNotifier) Success(msg string) { fmt.Fprintln(os.Stderr, msg) }
func (cliNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "error: "+msg) }

// loadConfig resolves the effective configuration from the --config and
// --server flags. A bare --server runs with defaults for everything else.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	server, _ := cmd.Flags().GetString("server")

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = &config.Config{
			Timeout:         config.Duration(30 * time.Second),
			PollInterval:    config.Duration(1 * time.Second),
			PollMaxAttempts: 60,
		}
	}

	if server != "" {
		cfg.BaseURL = server
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("no backend configured: pass --server or a config file with base_url")
	}
	return cfg, nil
}

// buildClient creates an SDK client from the resolved configuration, with
// the session persisted under the configured credentials directory.
func buildClient(cmd *cobra.Command) (*chatwire.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return config.BuildClient(cfg,
		chatwire.WithLogger(newLogger()),
		chatwire.WithNotifier(cliNotifier{}),
	)
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}
