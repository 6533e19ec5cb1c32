package display

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/layout"
	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// Dismisser is called when the user clicks a popup's close button.
type Dismisser interface {
	Dismiss(h toast.Handle) bool
}

// Surface implements toast.Surface with one layer-shell window per toast.
// The popups, oldest first, form the toast container.
type Surface struct {
	app    *gtk.Application
	logger *slog.Logger

	mu         sync.Mutex
	cfg        config.DisplayConfig
	closeLabel string
	mode       theme.Mode
	dismisser  Dismisser

	// Only touched on the GTK main loop.
	popups   map[toast.Handle]*Popup
	order    []toast.Handle
	attached bool
}

// NewSurface creates a GTK surface. cfg and mode can be changed later.
func NewSurface(app *gtk.Application, cfg config.DisplayConfig, closeLabel string, mode theme.Mode, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		app:        app,
		logger:     logger,
		cfg:        cfg,
		closeLabel: closeLabel,
		mode:       mode.OrDefault(),
		popups:     make(map[toast.Handle]*Popup),
	}
}

// SetDismisser wires close buttons to d, normally the toast manager.
func (s *Surface) SetDismisser(d Dismisser) {
	s.mu.Lock()
	s.dismisser = d
	s.mu.Unlock()
}

// Attach implements toast.Surface.
func (s *Surface) Attach() {
	glib.IdleAdd(func() {
		if s.attached {
			return
		}
		s.attached = true
		applyColorScheme(s.currentMode())
		s.logger.Debug("desktop surface attached")
	})
}

// Append implements toast.Surface.
func (s *Surface) Append(e toast.Entry) {
	glib.IdleAdd(func() {
		if _, exists := s.popups[e.Handle]; exists {
			return
		}
		s.mu.Lock()
		width, closeLabel, mode := s.cfg.Width, s.closeLabel, s.mode
		s.mu.Unlock()

		p := newPopup(s.app, e, width, closeLabel, mode)
		p.onClose = func() { s.dismiss(e.Handle) }
		s.popups[e.Handle] = p
		s.order = append(s.order, e.Handle)

		s.restack()
		p.present()
		// Re-stack once GTK has allocated the new window.
		glib.IdleAdd(s.restack)
	})
}

// Update implements toast.Surface.
func (s *Surface) Update(e toast.Entry) {
	glib.IdleAdd(func() {
		if p, ok := s.popups[e.Handle]; ok {
			p.update(e, s.currentMode())
		}
	})
}

// Remove implements toast.Surface.
func (s *Surface) Remove(h toast.Handle) {
	glib.IdleAdd(func() {
		p, ok := s.popups[h]
		if !ok {
			return
		}
		p.destroy()
		delete(s.popups, h)
		s.order = slices.DeleteFunc(s.order, func(o toast.Handle) bool { return o == h })
		s.restack()
	})
}

// SetTheme switches the colour scheme of every popup.
func (s *Surface) SetTheme(mode theme.Mode, entries []toast.Entry) {
	mode = mode.OrDefault()
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	glib.IdleAdd(func() {
		applyColorScheme(mode)
		for _, e := range entries {
			if p, ok := s.popups[e.Handle]; ok {
				p.update(e, mode)
			}
		}
	})
}

// UpdateConfig applies new display settings to existing popups.
func (s *Surface) UpdateConfig(cfg config.DisplayConfig, closeLabel string) {
	s.mu.Lock()
	s.cfg = cfg
	s.closeLabel = closeLabel
	s.mu.Unlock()

	glib.IdleAdd(s.restack)
}

// CloseAll destroys every popup without going through the manager.
func (s *Surface) CloseAll() {
	glib.IdleAdd(func() {
		for _, p := range s.popups {
			p.destroy()
		}
		s.popups = make(map[toast.Handle]*Popup)
		s.order = nil
	})
}

func (s *Surface) dismiss(h toast.Handle) {
	s.mu.Lock()
	d := s.dismisser
	s.mu.Unlock()

	if d == nil {
		s.logger.Warn("close clicked without a dismisser", "handle", h)
		return
	}
	// The manager calls back into Update and Remove, which queue onto the
	// main loop, so this must not block it.
	go d.Dismiss(h)
}

func (s *Surface) currentMode() theme.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// restack positions every popup from the anchored edge, oldest nearest.
func (s *Surface) restack() {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	edges := layout.AnchorFor(config.Position(cfg.Position))
	monitor := s.monitor(cfg.Monitor)

	heights := make([]int, len(s.order))
	for i, h := range s.order {
		heights[i] = s.popups[h].height()
	}
	margins := layout.Stack(heights, cfg.OffsetY, cfg.Gap)
	for i, h := range s.order {
		s.popups[h].place(edges, margins[i], cfg.OffsetX, monitor)
	}
}

// monitor resolves the configured monitor, or nil for the compositor's choice.
func (s *Surface) monitor(configured int) *gdk.Monitor {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil {
		return nil
	}

	index, ok := layout.MonitorIndex(configured, int(monitors.NItems()))
	if !ok {
		return nil
	}
	if configured > int(monitors.NItems()) {
		s.logger.Warn("configured monitor not available, using first",
			"configured", configured,
			"available", monitors.NItems(),
		)
	}

	obj := monitors.Item(uint(index))
	if obj == nil {
		return nil
	}
	monitor, _ := obj.Cast().(*gdk.Monitor)
	return monitor
}
