package display

import (
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastd/internal/layout"
	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// Popup is the layer-shell window for a single toast.
type Popup struct {
	handle toast.Handle
	window *gtk.Window
	box    *gtk.Box
	title  *gtk.Label
	body   *gtk.Label
	close  *gtk.Button

	onClose func()
	closed  bool
}

func newPopup(app *gtk.Application, e toast.Entry, width int, closeLabel string, mode theme.Mode) *Popup {
	p := &Popup{handle: e.Handle}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(width, -1)
	p.window.AddCSSClass("toast-window")

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "toastd")

	p.box = gtk.NewBox(gtk.OrientationHorizontal, 10)
	p.box.SetSizeRequest(width, -1)

	icon := gtk.NewImageFromIconName(layout.IconName(e.Severity))
	icon.AddCSSClass("toast-icon")
	icon.SetPixelSize(20)
	icon.SetVAlign(gtk.AlignStart)
	p.box.Append(icon)

	content := gtk.NewBox(gtk.OrientationVertical, 2)
	content.AddCSSClass("toast-content")
	content.SetHExpand(true)

	p.title = gtk.NewLabel(e.Title)
	p.title.AddCSSClass("toast-title")
	p.title.SetXAlign(0)
	p.title.SetVisible(e.HasTitle())
	content.Append(p.title)

	p.body = gtk.NewLabel(e.Message)
	p.body.AddCSSClass("toast-message")
	p.body.SetXAlign(0)
	p.body.SetWrap(true)
	p.body.SetMaxWidthChars(48)
	content.Append(p.body)
	p.box.Append(content)

	p.close = gtk.NewButtonFromIconName("window-close-symbolic")
	p.close.AddCSSClass("toast-close")
	p.close.AddCSSClass("flat")
	p.close.SetTooltipText(closeLabel)
	p.close.SetVAlign(gtk.AlignStart)
	p.close.ConnectClicked(func() {
		if p.onClose != nil {
			p.onClose()
		}
	})
	p.box.Append(p.close)

	p.window.SetChild(p.box)
	p.update(e, mode)
	return p
}

// update restyles the popup for the entry's current state.
func (p *Popup) update(e toast.Entry, mode theme.Mode) {
	if p.closed {
		return
	}
	p.box.SetCSSClasses(layout.Classes(e, mode))
	if e.State == toast.StateLeaving {
		p.close.SetSensitive(false)
	}
}

// place anchors the window and sets its margins.
func (p *Popup) place(edges layout.Edges, margin, offsetX int, monitor *gdk.Monitor) {
	if p.closed {
		return
	}
	if monitor != nil {
		layershell.SetMonitor(p.window, monitor)
	}

	layershell.SetAnchor(p.window, layershell.LayerShellEdgeTop, edges.Top)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeBottom, edges.Bottom)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeLeft, edges.Left)
	layershell.SetAnchor(p.window, layershell.LayerShellEdgeRight, edges.Right)

	if edges.Top {
		layershell.SetMargin(p.window, layershell.LayerShellEdgeTop, margin)
	} else {
		layershell.SetMargin(p.window, layershell.LayerShellEdgeBottom, margin)
	}
	if edges.Left {
		layershell.SetMargin(p.window, layershell.LayerShellEdgeLeft, offsetX)
	}
	if edges.Right {
		layershell.SetMargin(p.window, layershell.LayerShellEdgeRight, offsetX)
	}
}

func (p *Popup) present() {
	p.window.Present()
}

// height is the allocated height, zero before the first frame.
func (p *Popup) height() int {
	if p.closed {
		return 0
	}
	return p.window.Height()
}

func (p *Popup) destroy() {
	if p.closed {
		return
	}
	p.closed = true
	p.window.Close()
}
