package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/audio"
	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/daemon"
	"github.com/jmylchreest/toastd/internal/dbus"
	"github.com/jmylchreest/toastd/internal/display"
	"github.com/jmylchreest/toastd/internal/store"
	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/web"
)

const appID = "io.github.jmylchreest.toastd"

var daemonOpts struct {
	webAddr string
}

// daemonCmd runs the desktop notification daemon.
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the desktop toast daemon",
	Long: `Run toastd as the desktop notification server.

Each toast is a layer-shell popup stacked at the configured corner.
toastd owns org.freedesktop.Notifications on the session bus, so any
notify-send compatible client can raise toasts, and plays a sound per
severity when audio is enabled.

With --web the same toasts are mirrored to the browser overlay and the
JSON API, so "toastd list" and "toastd dismiss" work against the daemon.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&daemonOpts.webAddr, "web", "",
		"Also serve the web overlay and API on this address")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger.Info("starting toastd daemon", "version", version)

	themes, err := themePreference("daemon")
	if err != nil {
		return err
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between the GTK main loop and the signal handler
	var (
		manager      *toast.Manager
		surface      *display.Surface
		webSurface   *web.Surface
		dbusServer   *dbus.NotificationServer
		audioManager *audio.Manager
		configStop   func()
		prefsWatcher *store.FileWatcher
		running      atomic.Bool
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	shutdown := func() {
		if !running.Load() {
			app.Quit()
			return
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if manager != nil {
			manager.Shutdown()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if configStop != nil {
			configStop()
		}
		if prefsWatcher != nil {
			_ = prefsWatcher.Stop()
		}
		if surface != nil {
			surface.CloseAll()
		}
		app.Quit()
	}

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()
		// Stop components in GTK main loop context
		glib.IdleAdd(shutdown)
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		stylesheet := display.NewStylesheet(logger)
		if err := stylesheet.Apply(); err != nil {
			logger.Error("failed to apply stylesheet", "error", err)
			app.Quit()
			return
		}

		surface = display.NewSurface(&app.Application, cfg.Display, cfg.CloseLabel(), themes.Current(), logger)
		var target toast.Surface = surface
		if daemonOpts.webAddr != "" {
			webSurface = web.NewSurface(cfg.CloseLabel(), logger)
			webSurface.SetTheme(themes.Current())
			target = toast.MultiSurface{surface, webSurface}
		}
		manager = toast.New(target,
			toast.WithLogger(logger),
			toast.WithDefaults(cfg.ToastDefaults()),
		)
		surface.SetDismisser(manager)

		notifier := daemon.NewInternalNotifier(manager, logger)

		sheet := loadTheme(ctx, theme.GTKThemeName, func(css string) {
			glib.IdleAdd(func() {
				stylesheet.Load(css)
				notifier.NotifyThemeReloaded(theme.GTKThemeName)
			})
		})
		stylesheet.Load(sheet.CSS())

		audioManager = audio.NewManager(cfg, logger)
		if err := audioManager.Start(ctx); err != nil {
			logger.Warn("failed to start audio manager", "error", err)
		}
		manager.OnShow(audioManager.OnShow)

		dbusServer = dbus.NewNotificationServer(manager, logger)
		info := dbus.DefaultServerInfo()
		info.Version = version
		dbusServer.SetServerInfo(info)
		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			running.Store(false)
			app.Quit()
			return
		}

		configStop = watchConfig(ctx, cfg, notifier, func(c *config.Config) {
			manager.SetDefaults(c.ToastDefaults())
			audioManager.UpdateConfig(c)
			surface.UpdateConfig(c.Display, c.CloseLabel())
		})

		prefsWatcher, err = store.NewFileWatcher(themes.Path, func(p *store.Preferences) {
			mode := p.ThemeOr(themes.Fallback)
			surface.SetTheme(mode, manager.Entries())
			if webSurface != nil {
				webSurface.SetTheme(mode)
			}
		}, logger)
		if err != nil {
			logger.Warn("failed to create preferences watcher", "error", err)
			prefsWatcher = nil
		} else if err := prefsWatcher.Start(); err != nil {
			logger.Warn("failed to start preferences watcher", "error", err)
			prefsWatcher = nil
		}

		if webSurface != nil {
			sheet := loadTheme(ctx, theme.WebThemeName, nil)
			server := web.NewServer(manager, webSurface, themes, sheet, logger,
				web.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
			)
			go func() {
				if err := server.ListenAndServe(ctx, daemonOpts.webAddr); err != nil {
					logger.Error("web server stopped", "error", err)
				}
			}()
		}

		logger.Info("toastd ready", "dbus_interface", dbus.DBusInterface, "web", daemonOpts.webAddr)

		// GTK apps quit when all windows are closed, so keep a hidden one.
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("toastd stopped")
	})

	if code := app.Run([]string{os.Args[0]}); code != 0 {
		os.Exit(code)
	}
	return nil
}
