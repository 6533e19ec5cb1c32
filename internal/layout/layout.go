// Package layout computes where desktop toast popups go and which style
// classes they carry. It has no GTK dependency so the rules can be tested
// headless; internal/display applies them to layer-shell windows.
package layout

import (
	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// EstimatedHeight is used for popups GTK has not allocated yet.
const EstimatedHeight = 72

// Edges is the set of screen edges a popup is anchored to.
type Edges struct {
	Top, Bottom, Left, Right bool
}

// AnchorFor returns the anchors for pos. Unknown positions fall back to
// top-right.
func AnchorFor(pos config.Position) Edges {
	switch pos {
	case config.PositionTopLeft:
		return Edges{Top: true, Left: true}
	case config.PositionTopCenter:
		return Edges{Top: true}
	case config.PositionBottomLeft:
		return Edges{Bottom: true, Left: true}
	case config.PositionBottomRight:
		return Edges{Bottom: true, Right: true}
	case config.PositionBottomCenter:
		return Edges{Bottom: true}
	default:
		return Edges{Top: true, Right: true}
	}
}

// Horizontal reports whether a horizontal margin applies.
func (e Edges) Horizontal() bool {
	return e.Left || e.Right
}

// Stack returns the margin from the anchored vertical edge for each popup,
// oldest first. Heights of zero or less use EstimatedHeight.
func Stack(heights []int, offsetY, gap int) []int {
	margins := make([]int, len(heights))
	y := offsetY
	for i, h := range heights {
		margins[i] = y
		if h <= 0 {
			h = EstimatedHeight
		}
		y += h + gap
	}
	return margins
}

// Classes returns the style classes for a toast popup.
func Classes(e toast.Entry, mode theme.Mode) []string {
	classes := []string{"toast", e.Severity.Class(), string(mode.OrDefault())}
	if e.State == toast.StateLeaving {
		classes = append(classes, "toast-leaving")
	}
	if e.HasTitle() {
		classes = append(classes, "has-title")
	}
	return classes
}

// IconName maps a severity to a symbolic icon from the freedesktop icon
// naming spec.
func IconName(s toast.Severity) string {
	switch s.Normalize() {
	case toast.SeveritySuccess:
		return "emblem-ok-symbolic"
	case toast.SeverityDanger:
		return "dialog-error-symbolic"
	case toast.SeverityWarning:
		return "dialog-warning-symbolic"
	default:
		return "dialog-information-symbolic"
	}
}

// MonitorIndex resolves the configured 1-based monitor number against the
// number available. ok is false when the compositor should choose.
// Out-of-range values fall back to the first monitor.
func MonitorIndex(configured, available int) (index int, ok bool) {
	if configured <= 0 || available <= 0 {
		return 0, false
	}
	if configured > available {
		return 0, true
	}
	return configured - 1, true
}
