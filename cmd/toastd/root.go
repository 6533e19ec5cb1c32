package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/store"
	"github.com/jmylchreest/toastd/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toastd",
	Short: "Toast notifications for the web, the desktop and the terminal",
	Long: `toastd shows short-lived toast notifications.

The same toast manager can drive a browser overlay (toastd serve), a
layer-shell desktop daemon that owns org.freedesktop.Notifications
(toastd daemon), or a terminal demo (toastd tui).

Use 'toastd send' to raise a toast through the desktop daemon.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/toastd/toastd.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// configPath returns the config file in use, for watchers.
func configPath() (string, error) {
	if globalOpts.configPath != "" {
		return globalOpts.configPath, nil
	}
	return config.Path()
}

// fallbackMode is the colour scheme used until a preference is saved.
func fallbackMode(c *config.Config) theme.Mode {
	m, err := theme.ParseMode(c.Theme.ColorScheme)
	if err != nil {
		return theme.DefaultMode
	}
	return m
}

// themePreference returns the shared theme preference, tagged with source.
func themePreference(source string) (store.ThemePreference, error) {
	path, err := store.PreferencesPath()
	if err != nil {
		return store.ThemePreference{}, fmt.Errorf("failed to get preferences path: %w", err)
	}
	return store.ThemePreference{
		Path:     path,
		Fallback: fallbackMode(cfg),
		Source:   source,
		Logger:   logger,
	}, nil
}
