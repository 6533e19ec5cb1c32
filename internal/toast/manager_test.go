package toast_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/toast"
	"github.com/jmylchreest/toastd/internal/toast/toasttest"
)

func newTestManager(t *testing.T, opts ...toast.Option) (*toast.Manager, *toasttest.Surface, *toasttest.FakeClock) {
	t.Helper()
	surface := toasttest.NewSurface()
	clock := toasttest.NewFakeClock(time.Time{})
	m := toast.New(surface, append([]toast.Option{toast.WithClock(clock)}, opts...)...)
	t.Cleanup(m.Shutdown)
	return m, surface, clock
}

func TestNew_NilSurface(t *testing.T) {
	m := toast.New(nil)
	h := m.Info("hello")
	assert.NotEmpty(t, h)
	assert.Equal(t, 1, m.Len())
	m.Shutdown()
	assert.Equal(t, 0, m.Len())
}

func TestManager_EnsureSurface(t *testing.T) {
	m, surface, _ := newTestManager(t)
	assert.Equal(t, 0, surface.Attached())

	m.EnsureSurface()
	m.EnsureSurface()
	m.Show(toast.Config{Message: "a"})
	m.Show(toast.Config{Message: "b"})

	assert.Equal(t, 1, surface.Attached())
}

func TestManager_Show_AttachesLazily(t *testing.T) {
	m, surface, _ := newTestManager(t)

	h := m.Show(toast.Config{Message: "first"})

	calls := surface.Calls()
	require.GreaterOrEqual(t, len(calls), 3)
	assert.Equal(t, "attach", calls[0])
	assert.Equal(t, "append "+h.String(), calls[1])
	assert.Equal(t, "update "+h.String()+" visible", calls[2])
}

func TestManager_Show_SeverityIcons(t *testing.T) {
	tests := []struct {
		severity toast.Severity
		want     toast.Severity
		icon     string
	}{
		{toast.SeveritySuccess, toast.SeveritySuccess, "check"},
		{toast.SeverityDanger, toast.SeverityDanger, "exclamation-circle"},
		{toast.SeverityWarning, toast.SeverityWarning, "exclamation-triangle"},
		{toast.SeverityInfo, toast.SeverityInfo, "info-circle"},
		{"", toast.SeverityInfo, "info-circle"},
		{"fatal", toast.SeverityInfo, "info-circle"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			m, surface, _ := newTestManager(t)
			h := m.Show(toast.Config{Message: "x", Severity: tt.severity})

			e, ok := surface.Child(h)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Severity)
			assert.Equal(t, tt.icon, e.Severity.Icon())
		})
	}
}

func TestManager_Show_DefaultDuration(t *testing.T) {
	m, _, clock := newTestManager(t)
	h := m.Show(toast.Config{Message: "x"})

	e, ok := m.Get(h)
	require.True(t, ok)
	assert.Equal(t, toast.DefaultDuration, e.Duration)
	assert.Equal(t, toast.StateVisible, e.State)

	clock.Advance(toast.DefaultDuration - time.Millisecond)
	e, _ = m.Get(h)
	assert.Equal(t, toast.StateVisible, e.State)

	clock.Advance(time.Millisecond)
	e, _ = m.Get(h)
	assert.Equal(t, toast.StateLeaving, e.State)
}

func TestManager_Show_NonPositiveDurationPersists(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		t.Run(d.String(), func(t *testing.T) {
			m, _, clock := newTestManager(t)
			h := m.Show(toast.Config{Message: "sticky", Duration: toast.For(d)})

			clock.Advance(24 * time.Hour)

			e, ok := m.Get(h)
			require.True(t, ok)
			assert.Equal(t, toast.StateVisible, e.State)
			assert.False(t, e.Expires())
			assert.Equal(t, 0, clock.Pending())
		})
	}
}

func TestManager_Show_LeavesNoEarlierThanDuration(t *testing.T) {
	durations := []time.Duration{time.Millisecond, 250 * time.Millisecond, 3 * time.Second}

	for _, d := range durations {
		t.Run(d.String(), func(t *testing.T) {
			m, _, clock := newTestManager(t)
			h := m.Show(toast.Config{Message: "x", Duration: toast.For(d)})

			clock.Advance(d - time.Nanosecond)
			e, _ := m.Get(h)
			assert.Equal(t, toast.StateVisible, e.State)

			clock.Advance(time.Nanosecond)
			e, _ = m.Get(h)
			assert.Equal(t, toast.StateLeaving, e.State)
		})
	}
}

func TestManager_Show_Ordering(t *testing.T) {
	m, surface, _ := newTestManager(t)

	a := m.Show(toast.Config{Message: "A"})
	b := m.Show(toast.Config{Message: "B"})
	c := m.Show(toast.Config{Message: "C"})

	children := surface.Children()
	require.Len(t, children, 3)
	assert.Equal(t, []toast.Handle{a, b, c}, []toast.Handle{children[0].Handle, children[1].Handle, children[2].Handle})
	assert.Equal(t, "A", children[0].Message)
	assert.Equal(t, "B", children[1].Message)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, a, entries[0].Handle)
	assert.Equal(t, c, entries[2].Handle)
}

func TestManager_Show_UniqueHandles(t *testing.T) {
	m, _, _ := newTestManager(t)

	seen := make(map[toast.Handle]bool)
	for range 100 {
		h := m.Show(toast.Config{Message: "x", Duration: toast.Persistent()})
		assert.False(t, seen[h], "duplicate handle %s", h)
		seen[h] = true
	}
}

func TestManager_Dismiss(t *testing.T) {
	m, surface, clock := newTestManager(t)
	h := m.Show(toast.Config{Message: "x", Duration: toast.Persistent()})

	clock.Advance(time.Hour)
	assert.True(t, m.Dismiss(h))

	e, _ := m.Get(h)
	assert.Equal(t, toast.StateLeaving, e.State)

	clock.Advance(toast.DefaultGrace - time.Millisecond)
	_, ok := m.Get(h)
	assert.True(t, ok, "entry removed before grace period elapsed")

	clock.Advance(time.Millisecond)
	_, ok = m.Get(h)
	assert.False(t, ok)
	assert.Empty(t, surface.Children())
	assert.Equal(t, 0, m.Len())
}

func TestManager_Dismiss_Idempotent(t *testing.T) {
	m, surface, clock := newTestManager(t)
	h := m.Show(toast.Config{Message: "x"})

	assert.True(t, m.Dismiss(h))
	before := len(surface.Calls())
	assert.False(t, m.Dismiss(h))
	assert.Equal(t, before, len(surface.Calls()))

	clock.Advance(toast.DefaultGrace)
	assert.False(t, m.Dismiss(h))

	removes := 0
	for _, call := range surface.Calls() {
		if call == "remove "+h.String() {
			removes++
		}
	}
	assert.Equal(t, 1, removes)
}

func TestManager_Dismiss_AfterAutoDismiss(t *testing.T) {
	m, _, clock := newTestManager(t)

	var reasons []toast.CloseReason
	m.OnRemove(func(_ toast.Entry, reason toast.CloseReason) {
		reasons = append(reasons, reason)
	})

	h := m.Show(toast.Config{Message: "x", Duration: toast.For(time.Second)})
	clock.Advance(time.Second)

	assert.False(t, m.Dismiss(h))
	clock.Advance(toast.DefaultGrace)

	assert.Equal(t, []toast.CloseReason{toast.CloseReasonExpired}, reasons)
}

func TestManager_Dismiss_CancelsTimer(t *testing.T) {
	m, _, clock := newTestManager(t)

	var reasons []toast.CloseReason
	m.OnRemove(func(_ toast.Entry, reason toast.CloseReason) {
		reasons = append(reasons, reason)
	})

	h := m.Show(toast.Config{Message: "x", Duration: toast.For(time.Second)})
	m.Dismiss(h)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, []toast.CloseReason{toast.CloseReasonDismissed}, reasons)
	assert.Equal(t, 0, clock.Pending())
}

func TestManager_Dismiss_Unknown(t *testing.T) {
	m, surface, _ := newTestManager(t)
	assert.False(t, m.Dismiss("nope"))
	assert.False(t, m.Dismiss(""))
	assert.Empty(t, surface.Calls())
}

func TestManager_Success_EndToEnd(t *testing.T) {
	m, surface, clock := newTestManager(t)
	before := m.Len()

	h := m.Success("Saved")

	e, ok := surface.Child(h)
	require.True(t, ok)
	assert.Equal(t, toast.SeveritySuccess, e.Severity)
	assert.Equal(t, "Success", e.Title)
	assert.Equal(t, "Saved", e.Message)
	assert.Equal(t, before+1, m.Len())

	clock.Advance(5000 * time.Millisecond)
	assert.Equal(t, before+1, m.Len())

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, before, m.Len())
}

func TestManager_PersistentThenDismiss_EndToEnd(t *testing.T) {
	m, _, clock := newTestManager(t)
	h := m.Show(toast.Config{Message: "x", Duration: toast.For(0)})

	clock.Advance(17 * time.Minute)
	m.Dismiss(h)

	e, _ := m.Get(h)
	assert.Equal(t, toast.StateLeaving, e.State)

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 0, m.Len())
}

func TestManager_Wrappers(t *testing.T) {
	m, _, _ := newTestManager(t)

	tests := []struct {
		name     string
		show     func(string, ...string) toast.Handle
		severity toast.Severity
		title    string
	}{
		{"success", m.Success, toast.SeveritySuccess, "Success"},
		{"error", m.Error, toast.SeverityDanger, "Error"},
		{"warning", m.Warning, toast.SeverityWarning, "Warning"},
		{"info", m.Info, toast.SeverityInfo, "Info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := m.Get(tt.show("msg"))
			require.True(t, ok)
			assert.Equal(t, tt.severity, e.Severity)
			assert.Equal(t, tt.title, e.Title)

			e, _ = m.Get(tt.show("msg", "Custom"))
			assert.Equal(t, "Custom", e.Title)

			e, _ = m.Get(tt.show("msg", ""))
			assert.False(t, e.HasTitle())
		})
	}
}

func TestManager_LocalisedTitles(t *testing.T) {
	d := toast.DefaultDefaults()
	d.Titles = toast.PortugueseTitles()
	m, _, _ := newTestManager(t, toast.WithDefaults(d))

	e, _ := m.Get(m.Error("falhou"))
	assert.Equal(t, "Erro", e.Title)
}

func TestManager_MaxVisible(t *testing.T) {
	d := toast.DefaultDefaults()
	d.MaxVisible = 2
	m, _, clock := newTestManager(t, toast.WithDefaults(d))

	var evicted []toast.Handle
	m.OnRemove(func(e toast.Entry, reason toast.CloseReason) {
		if reason == toast.CloseReasonEvicted {
			evicted = append(evicted, e.Handle)
		}
	})

	a := m.Info("a")
	m.Info("b")
	m.Info("c")

	assert.Equal(t, 2, m.ActiveCount())
	e, _ := m.Get(a)
	assert.Equal(t, toast.StateLeaving, e.State)

	clock.Advance(toast.DefaultGrace)
	assert.Equal(t, []toast.Handle{a}, evicted)
	assert.Equal(t, 2, m.Len())
}

func TestManager_DismissAll(t *testing.T) {
	m, _, clock := newTestManager(t)
	m.Info("a")
	h := m.Info("b")
	m.Dismiss(h)
	m.Info("c")

	assert.Equal(t, 2, m.DismissAll())
	assert.Equal(t, 0, m.ActiveCount())

	clock.Advance(toast.DefaultGrace)
	assert.Equal(t, 0, m.Len())
}

func TestManager_Shutdown(t *testing.T) {
	m, surface, clock := newTestManager(t)

	var reasons []toast.CloseReason
	m.OnRemove(func(_ toast.Entry, reason toast.CloseReason) {
		reasons = append(reasons, reason)
	})

	m.Info("a")
	m.Show(toast.Config{Message: "b", Duration: toast.Persistent()})
	m.Shutdown()

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, surface.Children())
	assert.Equal(t, []toast.CloseReason{toast.CloseReasonClosed, toast.CloseReasonClosed}, reasons)

	clock.Advance(time.Minute)
	assert.Len(t, reasons, 2)
}

func TestManager_OnShow(t *testing.T) {
	m, _, _ := newTestManager(t)

	var shown []toast.Entry
	m.OnShow(func(e toast.Entry) {
		shown = append(shown, e)
		// Callbacks run outside the lock.
		assert.Equal(t, 1, m.Len())
	})

	h := m.Warning("careful")
	require.Len(t, shown, 1)
	assert.Equal(t, h, shown[0].Handle)
	assert.Equal(t, toast.StateVisible, shown[0].State)
}

func TestManager_SetDefaults(t *testing.T) {
	m, _, clock := newTestManager(t)

	old := m.Info("old")
	m.SetDefaults(toast.Defaults{Duration: time.Second, Grace: 100 * time.Millisecond, Titles: toast.EnglishTitles()})
	fresh := m.Info("new")

	clock.Advance(time.Second)
	e, _ := m.Get(fresh)
	assert.Equal(t, toast.StateLeaving, e.State)
	e, _ = m.Get(old)
	assert.Equal(t, toast.StateVisible, e.State)

	clock.Advance(100 * time.Millisecond)
	_, ok := m.Get(fresh)
	assert.False(t, ok)
}

func TestManager_ConcurrentDismiss(t *testing.T) {
	m := toast.New(toasttest.NewSurface())
	defer m.Shutdown()

	h := m.Show(toast.Config{Message: "x", Duration: toast.Persistent()})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Dismiss(h) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestMultiSurfaceMirrorsEveryCall(t *testing.T) {
	first, second := toasttest.NewSurface(), toasttest.NewSurface()
	clock := toasttest.NewFakeClock(time.Time{})
	m := toast.New(toast.MultiSurface{first, second}, toast.WithClock(clock))
	t.Cleanup(m.Shutdown)

	h := m.Show(toast.Config{Message: "both", Duration: toast.For(time.Second)})
	clock.Advance(time.Second + toast.DefaultGrace)

	assert.Equal(t, 1, first.Attached())
	assert.Equal(t, 1, second.Attached())
	assert.Equal(t, first.Calls(), second.Calls())
	assert.Contains(t, second.Calls(), "remove "+h.String())
	assert.Empty(t, second.Children())
}
