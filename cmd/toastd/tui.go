package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/tui"
)

// tuiCmd runs the terminal demo.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show toasts in the terminal",
	Long: `Launch an interactive terminal demo of the toast overlay.

Keys raise a toast of each severity, dismiss toasts and toggle the
shared light/dark preference. Press ? for the full key list.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	themes, err := themePreference("tui")
	if err != nil {
		return err
	}

	surface := tui.NewSurface()
	manager := toast.New(surface,
		toast.WithLogger(logger),
		toast.WithDefaults(cfg.ToastDefaults()),
	)
	defer manager.Shutdown()

	return tui.Run(manager, themes, surface)
}
