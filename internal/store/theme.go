package store

import (
	"log/slog"

	"github.com/jmylchreest/toastd/internal/theme"
)

// ThemePreference reads and writes the "theme" preference in one file.
type ThemePreference struct {
	Path     string
	Fallback theme.Mode // used when nothing is stored, normally config color_scheme
	Source   string     // recorded as UpdatedBy
	Logger   *slog.Logger
}

func (t ThemePreference) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// Current returns the stored theme or the fallback. Read errors are logged
// and yield the fallback.
func (t ThemePreference) Current() theme.Mode {
	p, err := LoadPreferences(t.Path)
	if err != nil {
		t.logger().Warn("failed to load theme preference", "path", t.Path, "error", err)
		return t.Fallback.OrDefault()
	}
	return p.ThemeOr(t.Fallback)
}

// Set stores m.
func (t ThemePreference) Set(m theme.Mode) error {
	_, err := Update(t.Path, func(p *Preferences) {
		p.SetTheme(m, t.Source)
	})
	return err
}

// Toggle flips the stored theme and returns the new mode.
func (t ThemePreference) Toggle() (theme.Mode, error) {
	return ToggleTheme(t.Path, t.Fallback, t.Source)
}
