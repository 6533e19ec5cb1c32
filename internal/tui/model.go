// Package tui provides a Bubble Tea terminal demo of the toast overlay.
package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

// ToastWidth is the outer width of a toast box.
const ToastWidth = 40

// Controller is the part of toast.Manager the TUI drives.
type Controller interface {
	Show(cfg toast.Config) toast.Handle
	Dismiss(h toast.Handle) bool
	DismissAll() int
	Defaults() toast.Defaults
}

// Themes reads and toggles the colour scheme preference.
type Themes interface {
	Current() theme.Mode
	Toggle() (theme.Mode, error)
}

// demo messages, cycled per severity by the show keys.
var demoMessages = map[toast.Severity][]string{
	toast.SeveritySuccess: {"Saved", "Upload complete", "Settings applied"},
	toast.SeverityDanger:  {"Connection lost", "Build failed", "Permission denied"},
	toast.SeverityWarning: {"Disk almost full", "Token expires soon", "Retrying request"},
	toast.SeverityInfo:    {"New version available", "Sync started", "3 unread messages"},
}

// Model is the main TUI model.
type Model struct {
	toasts Controller
	themes Themes
	now    func() time.Time

	keys KeyMap
	help help.Model

	entries  []toast.Entry
	attached bool
	mode     theme.Mode
	styles   Styles
	shown    map[toast.Severity]int

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
}

// New creates a model driving toasts. now defaults to time.Now.
func New(toasts Controller, themes Themes, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	mode := themes.Current().OrDefault()
	return Model{
		toasts: toasts,
		themes: themes,
		now:    now,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		mode:   mode,
		styles: StylesFor(mode),
		shown:  make(map[toast.Severity]int),
	}
}

type tickMsg time.Time

type themeMsg struct {
	mode theme.Mode
	err  error
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case attachMsg:
		m.attached = true
		return m, nil

	case appendMsg:
		m.entries = append(m.entries, msg.entry)
		return m, nil

	case updateMsg:
		for i := range m.entries {
			if m.entries[i].Handle == msg.entry.Handle {
				m.entries[i] = msg.entry
			}
		}
		return m, nil

	case removeMsg:
		m.entries = slices.DeleteFunc(m.entries, func(e toast.Entry) bool {
			return e.Handle == msg.handle
		})
		return m, nil

	case themeMsg:
		if msg.err != nil {
			return m.withStatus("Theme not saved: "+msg.err.Error(), true)
		}
		m.mode = msg.mode
		m.styles = StylesFor(msg.mode)
		return m, nil

	case tickMsg:
		return m, tick()

	case statusMsg:
		return m.withStatus(msg.text, msg.isErr)

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

// withStatus shows text in the footer until the clear tick fires.
func (m Model) withStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusErr = isErr
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses. Manager calls run as commands because the
// manager reports back through the surface, which feeds this event loop.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Success):
		return m.show(toast.SeveritySuccess, nil)
	case key.Matches(msg, m.keys.Error):
		return m.show(toast.SeverityDanger, nil)
	case key.Matches(msg, m.keys.Warning):
		return m.show(toast.SeverityWarning, nil)
	case key.Matches(msg, m.keys.Info):
		return m.show(toast.SeverityInfo, nil)
	case key.Matches(msg, m.keys.Persistent):
		return m.show(toast.SeverityInfo, toast.Persistent())

	case key.Matches(msg, m.keys.Dismiss):
		h, ok := m.newestActive()
		if !ok {
			return m, setStatus("Nothing to dismiss", false)
		}
		toasts := m.toasts
		return m, func() tea.Msg {
			toasts.Dismiss(h)
			return nil
		}

	case key.Matches(msg, m.keys.DismissAll):
		toasts := m.toasts
		return m, func() tea.Msg {
			n := toasts.DismissAll()
			return statusMsg{text: fmt.Sprintf("Dismissed %d", n)}
		}

	case key.Matches(msg, m.keys.Theme):
		themes := m.themes
		return m, func() tea.Msg {
			mode, err := themes.Toggle()
			return themeMsg{mode: mode, err: err}
		}
	}

	return m, nil
}

func (m Model) show(sev toast.Severity, duration *time.Duration) (tea.Model, tea.Cmd) {
	messages := demoMessages[sev]
	cfg := toast.Config{
		Message:  messages[m.shown[sev]%len(messages)],
		Severity: sev,
		Duration: duration,
	}
	m.shown[sev]++

	toasts := m.toasts
	return m, func() tea.Msg {
		cfg.Title = toasts.Defaults().Titles.For(cfg.Severity)
		toasts.Show(cfg)
		return nil
	}
}

func (m Model) newestActive() (toast.Handle, bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].State.Active() {
			return m.entries[i].Handle, true
		}
	}
	return "", false
}

// Entries returns the toasts the model is currently rendering.
func (m Model) Entries() []toast.Entry {
	return slices.Clone(m.entries)
}

// Mode returns the active colour scheme.
func (m Model) Mode() theme.Mode {
	return m.mode
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render("toastd") +
		m.styles.Faint.Render(fmt.Sprintf("[t] %s %s", themeGlyph(m.mode), m.mode))

	var body string
	if m.attached && len(m.entries) > 0 {
		boxes := make([]string, len(m.entries))
		for i, e := range m.entries {
			boxes[i] = m.styles.RenderToast(e, ToastWidth)
		}
		stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack)
	}

	footer := m.footer()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight > 0 {
		body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) footer() string {
	var status string
	switch {
	case m.statusMsg != "" && m.statusErr:
		status = m.styles.Error.Render(m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.Status.Render(m.statusMsg)
	default:
		status = m.styles.Status.Render(m.summary())
	}
	return status + "\n" + m.help.View(m.keys)
}

// summary describes the stack, e.g. "2 toasts, oldest 4 seconds ago".
func (m Model) summary() string {
	if len(m.entries) == 0 {
		return "No toasts"
	}
	oldest := m.entries[0].CreatedAt
	for _, e := range m.entries[1:] {
		if e.CreatedAt.Before(oldest) {
			oldest = e.CreatedAt
		}
	}
	noun := "toasts"
	if len(m.entries) == 1 {
		noun = "toast"
	}
	return strings.Join([]string{
		fmt.Sprintf("%d %s", len(m.entries), noun),
		"oldest " + humanize.RelTime(oldest, m.now(), "ago", "from now"),
	}, ", ")
}

func themeGlyph(mode theme.Mode) string {
	if mode.ToggleIcon() == "sun" {
		return "☀"
	}
	return "☾"
}

// Run starts the TUI and blocks until the user quits. The surface is bound
// to the program before it starts so no toast is missed.
func Run(toasts Controller, themes Themes, surface *Surface) error {
	p := tea.NewProgram(New(toasts, themes, nil), tea.WithAltScreen())
	surface.Bind(p)
	defer surface.Bind(nil)

	_, err := p.Run()
	return err
}
