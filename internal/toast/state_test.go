package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_CanTransition(t *testing.T) {
	all := []State{StateEntering, StateVisible, StateLeaving, StateRemoved}
	allowed := map[[2]State]bool{
		{StateEntering, StateVisible}: true,
		{StateEntering, StateLeaving}: true,
		{StateVisible, StateLeaving}:  true,
		{StateLeaving, StateRemoved}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				assert.Equal(t, allowed[[2]State{from, to}], from.CanTransition(to))
			})
		}
	}
}

func TestState_Active(t *testing.T) {
	assert.True(t, StateEntering.Active())
	assert.True(t, StateVisible.Active())
	assert.False(t, StateLeaving.Active())
	assert.False(t, StateRemoved.Active())
}

func TestCloseReason_String(t *testing.T) {
	assert.Equal(t, "expired", CloseReasonExpired.String())
	assert.Equal(t, "dismissed", CloseReasonDismissed.String())
	assert.Equal(t, "closed", CloseReasonClosed.String())
	assert.Equal(t, "evicted", CloseReasonEvicted.String())
	assert.Equal(t, "unknown", CloseReason(0).String())
}

func TestDefaults_withFallbacks(t *testing.T) {
	d := Defaults{Duration: -time.Second, Grace: 0, MaxVisible: -3}.withFallbacks()
	assert.Equal(t, time.Duration(0), d.Duration)
	assert.Equal(t, DefaultGrace, d.Grace)
	assert.Equal(t, 0, d.MaxVisible)

	d = DefaultDefaults()
	assert.Equal(t, 5*time.Second, d.Duration)
	assert.Equal(t, 300*time.Millisecond, d.Grace)
}

func TestEntry_ExpiresAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	e := Entry{CreatedAt: created, Duration: 2 * time.Second}
	assert.True(t, e.Expires())
	assert.Equal(t, created.Add(2*time.Second), e.ExpiresAt())

	e.Duration = 0
	assert.False(t, e.Expires())
	assert.True(t, e.ExpiresAt().IsZero())
}

func TestParseState(t *testing.T) {
	for _, st := range []State{StateEntering, StateVisible, StateLeaving, StateRemoved} {
		got, ok := ParseState(st.String())
		assert.True(t, ok)
		assert.Equal(t, st, got)
	}

	_, ok := ParseState("gone")
	assert.False(t, ok)
}
