package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/store"
	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/web"
)

var serveOpts struct {
	addr string
}

// serveCmd runs the browser overlay.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the toast overlay over HTTP",
	Long: `Serve a page with the toast overlay and a JSON API to drive it.

Toasts are pushed to the page over server-sent events. The colour scheme
is shared with the other toastd surfaces through the preferences file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "",
		"Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveOpts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	themes, err := themePreference("serve")
	if err != nil {
		return err
	}

	surface := web.NewSurface(cfg.CloseLabel(), logger)
	surface.SetTheme(themes.Current())

	manager := toast.New(surface,
		toast.WithLogger(logger),
		toast.WithDefaults(cfg.ToastDefaults()),
	)
	defer manager.Shutdown()

	notifier := daemon.NewInternalNotifier(manager, logger)

	stylesheet := loadTheme(ctx, theme.WebThemeName, func(string) {
		notifier.NotifyThemeReloaded(theme.WebThemeName)
	})

	stopConfig := watchConfig(ctx, cfg, notifier, func(c *config.Config) {
		manager.SetDefaults(c.ToastDefaults())
	})
	defer stopConfig()

	prefsWatcher, err := store.NewFileWatcher(themes.Path, func(p *store.Preferences) {
		surface.SetTheme(p.ThemeOr(themes.Fallback))
	}, logger)
	if err != nil {
		logger.Warn("failed to create preferences watcher", "error", err)
	} else if err := prefsWatcher.Start(); err != nil {
		logger.Warn("failed to start preferences watcher", "error", err)
	} else {
		defer func() { _ = prefsWatcher.Stop() }()
	}

	server := web.NewServer(manager, surface, themes, stylesheet, logger,
		web.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "toastd serving on http://%s\n", addr)
	return server.ListenAndServe(ctx, addr)
}

// loadTheme resolves a stylesheet and hot-reloads user overrides until ctx
// ends. onChange is called with the new CSS.
func loadTheme(ctx context.Context, name string, onChange func(css string)) *theme.Theme {
	dir, err := theme.ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
	}
	t := theme.Load(name, dir)
	logger.Debug("theme loaded", "name", t.Name, "embedded", t.Embedded)

	w := theme.NewWatcher(t, logger)
	w.SetChangeCallback(onChange)
	if err := w.Start(ctx); err != nil {
		logger.Warn("failed to watch theme", "error", err)
	}
	return t
}

// watchConfig hot-reloads the config file, calling apply with each valid
// version. The returned func stops the watcher.
func watchConfig(ctx context.Context, current *config.Config, notifier *daemon.InternalNotifier, apply func(*config.Config)) func() {
	path, err := configPath()
	if err != nil {
		logger.Warn("failed to get config path", "error", err)
		return func() {}
	}

	w := config.NewWatcher(path, current, logger)
	w.SetReloadCallback(func(c *config.Config) {
		apply(c)
		notifier.NotifyConfigReloaded()
	})
	w.SetErrorCallback(notifier.NotifyConfigError)
	if err := w.Start(ctx); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
		return func() {}
	}
	return w.Stop
}
