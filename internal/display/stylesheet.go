package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastd/internal/theme"
)

// Stylesheet owns the application-priority CSS provider for popups.
type Stylesheet struct {
	provider *gtk.CSSProvider
	logger   *slog.Logger
}

// NewStylesheet creates an empty stylesheet. Must be called on the GTK main
// loop.
func NewStylesheet(logger *slog.Logger) *Stylesheet {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stylesheet{
		provider: gtk.NewCSSProvider(),
		logger:   logger,
	}
}

// Load replaces the provider's CSS.
func (s *Stylesheet) Load(css string) {
	s.provider.LoadFromString(css)
	s.logger.Debug("loaded popup stylesheet", "bytes", len(css))
}

// Apply attaches the provider to the default display.
func (s *Stylesheet) Apply() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}
	gtk.StyleContextAddProviderForDisplay(display, s.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	return nil
}

// applyColorScheme forces libadwaita's colour scheme so @window_bg_color
// and friends follow the stored preference.
func applyColorScheme(mode theme.Mode) {
	scheme := adw.ColorSchemeForceLight
	if mode.OrDefault() == theme.ModeDark {
		scheme = adw.ColorSchemeForceDark
	}
	adw.StyleManagerGetDefault().SetColorScheme(scheme)
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
