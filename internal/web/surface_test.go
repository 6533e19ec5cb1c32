package web

import (
	"testing"

	"github.com/starfederation/datastar-go/datastar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/theme"
	"github.com/jmylchreest/toastd/internal/toast"
)

func drain(ch <-chan Patch) []Patch {
	var out []Patch
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestSurface_PatchSequence(t *testing.T) {
	s := NewSurface("", nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	e := toast.Entry{Handle: "H1", Message: "hello", Severity: toast.SeverityWarning, State: toast.StateEntering}
	s.Attach()
	s.Append(e)
	e.State = toast.StateLeaving
	s.Update(e)
	s.Remove("H1")

	patches := drain(ch)
	require.Len(t, patches, 4)

	assert.Equal(t, "body", patches[0].Selector)
	assert.Equal(t, datastar.ElementPatchModeAppend, patches[0].Mode)
	assert.Contains(t, patches[0].Elements, `id="toast-container"`)

	assert.Equal(t, "#toast-container", patches[1].Selector)
	assert.Equal(t, datastar.ElementPatchModeAppend, patches[1].Mode)
	assert.Contains(t, patches[1].Elements, "toast-warning")

	assert.Equal(t, datastar.ElementPatchModeOuter, patches[2].Mode)
	assert.Contains(t, patches[2].Elements, "toast-leaving")

	assert.Equal(t, "#toast-H1", patches[3].Selector)
	assert.Equal(t, datastar.ElementPatchModeRemove, patches[3].Mode)
	assert.Empty(t, patches[3].Elements)

	attached, entries := s.Snapshot()
	assert.True(t, attached)
	assert.Empty(t, entries)
}

func TestSurface_SubscribeResyncs(t *testing.T) {
	s := NewSurface("Close", nil)
	s.Attach()
	s.Append(toast.Entry{Handle: "A", Message: "a"})
	s.Append(toast.Entry{Handle: "B", Message: "b"})

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	patches := drain(ch)
	require.Len(t, patches, 1)
	assert.Equal(t, datastar.ElementPatchModeOuter, patches[0].Mode)
	assert.Contains(t, patches[0].Elements, "toast-A")
	assert.Contains(t, patches[0].Elements, "toast-B")
}

func TestSurface_UnknownUpdateIgnored(t *testing.T) {
	s := NewSurface("Close", nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Update(toast.Entry{Handle: "missing"})
	assert.Empty(t, drain(ch))
}

func TestSurface_DropsSlowSubscriber(t *testing.T) {
	s := NewSurface("Close", nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Attach()
	for i := 0; i < subscriberBuffer+1; i++ {
		s.Append(toast.Entry{Handle: toast.Handle(string(rune('a' + i%26)))})
	}

	assert.Equal(t, 0, s.Subscribers())
	patches := drain(ch)
	assert.Len(t, patches, subscriberBuffer)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestSurface_Unsubscribe(t *testing.T) {
	s := NewSurface("Close", nil)
	_, unsubscribe := s.Subscribe()
	assert.Equal(t, 1, s.Subscribers())
	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, s.Subscribers())
}

func TestSurface_SetTheme(t *testing.T) {
	s := NewSurface("Close", nil)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.SetTheme(theme.ModeDark)

	patches := drain(ch)
	require.Len(t, patches, 2)
	assert.JSONEq(t, `{"theme":"dark"}`, string(patches[0].Signals))
	assert.Contains(t, patches[1].Elements, `id="theme-toggle"`)
	assert.Contains(t, patches[1].Elements, "bi-sun")
}
