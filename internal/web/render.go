package web

import (
	"strings"

	g "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// Element IDs of the markup contract.
const (
	ContainerID   = "toast-container"
	ThemeToggleID = "theme-toggle"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"
const bootstrapIcons = "https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.3/font/bootstrap-icons.min.css"

// ToastID returns the DOM id of the toast with handle h.
func ToastID(h toast.Handle) string {
	return "toast-" + h.String()
}

// IconClass returns the Bootstrap Icons class for a severity.
func IconClass(s toast.Severity) string {
	icon := s.Icon()
	if icon == "check" {
		icon = "check-circle"
	}
	return "bi-" + icon + "-fill"
}

// Toast renders one notification.
func Toast(e toast.Entry, closeLabel string) g.Node {
	classes := []string{"toast", e.Severity.Class()}
	if e.State == toast.StateLeaving {
		classes = append(classes, "toast-leaving")
	}

	return Div(
		ID(ToastID(e.Handle)),
		Class(strings.Join(classes, " ")),
		Role("alert"),
		Aria("live", "assertive"),
		Aria("atomic", "true"),
		I(Class("toast-icon bi "+IconClass(e.Severity)), Aria("hidden", "true")),
		Div(Class("toast-content"),
			g.If(e.HasTitle(), Div(Class("toast-title"), g.Text(e.Title))),
			P(Class("toast-message"), g.Text(e.Message)),
		),
		Button(
			Type("button"),
			Class("toast-close"),
			Aria("label", closeLabel),
			g.Attr("data-on:click", "@post('/toasts/"+e.Handle.String()+"/dismiss')"),
			g.Raw("&times;"),
		),
	)
}

// Container renders the notification container with its children.
func Container(entries []toast.Entry, closeLabel string) g.Node {
	return Div(
		ID(ContainerID),
		Class("toast-container"),
		Aria("live", "polite"),
		g.Map(entries, func(e toast.Entry) g.Node {
			return Toast(e, closeLabel)
		}),
	)
}

// ThemeToggle renders the button that switches the colour scheme.
func ThemeToggle(m theme.Mode) g.Node {
	return Button(
		ID(ThemeToggleID),
		Type("button"),
		Class("theme-toggle"),
		Aria("label", "Toggle theme"),
		g.Attr("data-on:click", "@post('/theme/toggle')"),
		I(Class("bi bi-"+m.ToggleIcon()), Aria("hidden", "true")),
	)
}

// PageData is the state a page is rendered from.
type PageData struct {
	Title      string
	Theme      theme.Mode
	Attached   bool
	Entries    []toast.Entry
	CloseLabel string
}

// Page renders the demo page. The container is only present once the
// surface has been attached; later it is appended to the end of the body.
func Page(p PageData) g.Node {
	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(g.Text(p.Title)),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href(bootstrapIcons)),
			Link(Rel("stylesheet"), Href("/static/toast.css")),
			Script(Type("module"), Src(datastarScript)),
		),
		Body(
			g.Attr("data-theme", p.Theme.OrDefault().String()),
			data.Signals(map[string]any{"theme": p.Theme.OrDefault().String()}),
			g.Attr("data-attr:data-theme", "$theme"),
			g.Attr("data-init", "@get('/toasts/events')"),
			Header(Class("topbar"),
				H1(g.Text(p.Title)),
				ThemeToggle(p.Theme),
			),
			Main(
				data.Signals(map[string]any{
					"title":      "",
					"message":    "",
					"severity":   string(toast.SeverityInfo),
					"durationMs": toast.DefaultDuration.Milliseconds(),
				}),
				Form(
					g.Attr("data-on:submit", "@post('/toasts')"),
					Label(g.Text("Title"), Input(Type("text"), data.Bind("title"))),
					Label(g.Text("Message"), Input(Type("text"), data.Bind("message"), Required())),
					Label(g.Text("Severity"),
						Select(data.Bind("severity"),
							g.Map(toast.Severities(), func(s toast.Severity) g.Node {
								return Option(Value(s.String()), g.Text(s.String()))
							}),
						),
					),
					Label(g.Text("Duration (ms, 0 keeps it)"), Input(Type("number"), data.Bind("durationMs"))),
					Button(Type("submit"), g.Text("Show")),
				),
				Button(Type("button"), g.Attr("data-on:click", "@delete('/toasts')"), g.Text("Dismiss all")),
			),
			g.If(p.Attached, Container(p.Entries, p.CloseLabel)),
		),
	))
}
