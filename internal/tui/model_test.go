package tui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/toast/toasttest"
)

type memThemes struct {
	mode theme.Mode
	err  error
}

func (t *memThemes) Current() theme.Mode { return t.mode }

func (t *memThemes) Toggle() (theme.Mode, error) {
	if t.err != nil {
		return "", t.err
	}
	t.mode = t.mode.Toggle()
	return t.mode, nil
}

// programStub forwards surface messages into a channel, like tea.Program.
type programStub struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (p *programStub) Send(msg tea.Msg) {
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
}

func (p *programStub) drain() []tea.Msg {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.msgs
	p.msgs = nil
	return msgs
}

type tuiEnv struct {
	clock   *toasttest.FakeClock
	manager *toast.Manager
	program *programStub
	themes  *memThemes
	model   Model
}

func newTUIEnv(t *testing.T) *tuiEnv {
	t.Helper()
	clock := toasttest.NewFakeClock(time.Time{})
	surface := NewSurface()
	program := &programStub{}
	surface.Bind(program)

	manager := toast.New(surface, toast.WithClock(clock))
	themes := &memThemes{mode: theme.ModeLight}
	m := New(manager, themes, clock.Now)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	return &tuiEnv{clock: clock, manager: manager, program: program, themes: themes, model: updated.(Model)}
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends a key, runs the resulting command, then feeds the model every
// message the surface produced plus the command's own result.
func (env *tuiEnv) press(t *testing.T, k string) {
	t.Helper()
	updated, cmd := env.model.Update(keyMsg(k))
	env.model = updated.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			env.program.Send(msg)
		}
	}
	env.pump()
}

func (env *tuiEnv) pump() {
	for _, msg := range env.program.drain() {
		updated, _ := env.model.Update(msg)
		env.model = updated.(Model)
	}
}

func TestShowKeysRaiseToasts(t *testing.T) {
	env := newTUIEnv(t)

	env.press(t, "s")
	env.press(t, "e")
	env.press(t, "w")
	env.press(t, "i")

	entries := env.model.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, toast.SeveritySuccess, entries[0].Severity)
	assert.Equal(t, "Success", entries[0].Title)
	assert.Equal(t, toast.SeverityDanger, entries[1].Severity)
	assert.Equal(t, "Error", entries[1].Title)
	assert.Equal(t, toast.SeverityWarning, entries[2].Severity)
	assert.Equal(t, toast.SeverityInfo, entries[3].Severity)
	for _, e := range entries {
		assert.Equal(t, toast.StateVisible, e.State)
	}

	view := env.model.View()
	assert.Contains(t, view, "Saved")
	assert.Contains(t, view, "Connection lost")
}

func TestShowKeysCyclePerSeverity(t *testing.T) {
	env := newTUIEnv(t)

	env.press(t, "e")
	env.press(t, "s")
	env.press(t, "e")
	env.press(t, "e")
	env.press(t, "e")

	var messages []string
	for _, e := range env.model.Entries() {
		if e.Severity == toast.SeverityDanger {
			messages = append(messages, e.Message)
		}
	}
	assert.Equal(t, []string{"Connection lost", "Build failed", "Permission denied", "Connection lost"}, messages)
	assert.Equal(t, "Saved", env.model.Entries()[1].Message)
}

func TestToastsExpireThroughSurface(t *testing.T) {
	env := newTUIEnv(t)
	env.press(t, "s")

	env.clock.Advance(toast.DefaultDuration)
	env.pump()
	require.Len(t, env.model.Entries(), 1)
	assert.Equal(t, toast.StateLeaving, env.model.Entries()[0].State)

	env.clock.Advance(toast.DefaultGrace)
	env.pump()
	assert.Empty(t, env.model.Entries())
}

func TestPersistentAndDismiss(t *testing.T) {
	env := newTUIEnv(t)
	env.press(t, "p")
	env.press(t, "s")

	env.clock.Advance(time.Hour)
	env.pump()
	entries := env.model.Entries()
	require.Len(t, entries, 1, "only the persistent toast survives")
	assert.False(t, entries[0].Expires())

	env.press(t, "d")
	assert.Equal(t, toast.StateLeaving, env.model.Entries()[0].State)

	env.clock.Advance(toast.DefaultGrace)
	env.pump()
	assert.Empty(t, env.model.Entries())
}

func TestDismissNewestSkipsLeaving(t *testing.T) {
	env := newTUIEnv(t)
	env.press(t, "p")
	env.press(t, "p")

	env.press(t, "d")
	env.press(t, "d")

	for _, e := range env.model.Entries() {
		assert.Equal(t, toast.StateLeaving, e.State)
	}

	env.press(t, "d")
	assert.Equal(t, "Nothing to dismiss", env.model.statusMsg)
}

func TestDismissAll(t *testing.T) {
	env := newTUIEnv(t)
	env.press(t, "p")
	env.press(t, "p")
	env.press(t, "D")

	assert.Equal(t, "Dismissed 2", env.model.statusMsg)
	env.clock.Advance(toast.DefaultGrace)
	env.pump()
	assert.Empty(t, env.model.Entries())
}

func TestThemeToggle(t *testing.T) {
	env := newTUIEnv(t)
	assert.Equal(t, theme.ModeLight, env.model.Mode())
	assert.Contains(t, env.model.View(), "☾")

	env.press(t, "t")
	assert.Equal(t, theme.ModeDark, env.model.Mode())
	assert.Equal(t, theme.ModeDark, env.themes.mode)
	assert.Contains(t, env.model.View(), "☀")

	env.themes.err = errors.New("read-only")
	env.press(t, "t")
	assert.Equal(t, theme.ModeDark, env.model.Mode())
	assert.True(t, env.model.statusErr)
	assert.Equal(t, "Theme not saved: read-only", env.model.statusMsg)
}

func TestSummary(t *testing.T) {
	env := newTUIEnv(t)
	assert.Equal(t, "No toasts", env.model.summary())

	env.press(t, "p")
	env.clock.Advance(3 * time.Second)
	env.press(t, "p")
	assert.Equal(t, "2 toasts, oldest 3 seconds ago", env.model.summary())
}

func TestQuit(t *testing.T) {
	env := newTUIEnv(t)
	_, cmd := env.model.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUnboundSurfaceDropsCalls(t *testing.T) {
	s := NewSurface()
	assert.NotPanics(t, func() {
		s.Attach()
		s.Append(toast.Entry{Handle: "x"})
		s.Remove("x")
	})
}

func TestRenderToast(t *testing.T) {
	st := StylesFor(theme.ModeDark)
	out := st.RenderToast(toast.Entry{Title: "Heads up", Message: "careful", Severity: toast.SeverityWarning}, ToastWidth)
	assert.Contains(t, out, "⚠")
	assert.Contains(t, out, "Heads up")
	assert.Contains(t, out, "careful")

	out = st.RenderToast(toast.Entry{Message: "plain", Severity: "bogus"}, ToastWidth)
	assert.Contains(t, out, "ℹ")
}
