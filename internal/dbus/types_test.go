package dbus

import (
	"math"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/toast"
)

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestCloseReasonFor(t *testing.T) {
	assert.Equal(t, CloseReasonExpired, closeReasonFor(toast.CloseReasonExpired))
	assert.Equal(t, CloseReasonDismissed, closeReasonFor(toast.CloseReasonDismissed))
	assert.Equal(t, CloseReasonClosed, closeReasonFor(toast.CloseReasonClosed))
	assert.Equal(t, CloseReasonUndefined, closeReasonFor(toast.CloseReasonEvicted))
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: UrgencyLow,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: UrgencyCritical,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected string
	}{
		{"no hint", nil, ""},
		{"email category", map[string]dbus.Variant{"category": dbus.MakeVariant("email.arrived")}, "email.arrived"},
		{"wrong type", map[string]dbus.Variant{"category": dbus.MakeVariant(123)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Category())
		})
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected toast.Severity
	}{
		{"no hints", nil, toast.SeverityInfo},
		{"severity hint", map[string]dbus.Variant{SeverityHint: dbus.MakeVariant("warning")}, toast.SeverityWarning},
		{"unknown severity hint", map[string]dbus.Variant{SeverityHint: dbus.MakeVariant("bogus")}, toast.SeverityInfo},
		{
			name: "severity hint beats urgency",
			hints: map[string]dbus.Variant{
				SeverityHint: dbus.MakeVariant("success"),
				"urgency":    dbus.MakeVariant(byte(2)),
			},
			expected: toast.SeveritySuccess,
		},
		{"error category", map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.error")}, toast.SeverityDanger},
		{"warning category", map[string]dbus.Variant{"category": dbus.MakeVariant("device.warning")}, toast.SeverityWarning},
		{"complete category", map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")}, toast.SeveritySuccess},
		{"critical urgency", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, toast.SeverityDanger},
		{"low urgency", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, toast.SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Severity())
		})
	}
}

func TestDuration(t *testing.T) {
	n := &DBusNotification{ExpireTimeout: -1}
	assert.Nil(t, n.Duration())

	n.ExpireTimeout = 0
	require.NotNil(t, n.Duration())
	assert.Equal(t, time.Duration(0), *n.Duration())

	n.ExpireTimeout = 2500
	require.NotNil(t, n.Duration())
	assert.Equal(t, 2500*time.Millisecond, *n.Duration())
}

func TestConfig(t *testing.T) {
	n := &DBusNotification{
		Summary:       "Build",
		Body:          "finished",
		Hints:         map[string]dbus.Variant{SeverityHint: dbus.MakeVariant("success")},
		ExpireTimeout: 1000,
	}
	cfg := n.Config()
	assert.Equal(t, "Build", cfg.Title)
	assert.Equal(t, "finished", cfg.Message)
	assert.Equal(t, toast.SeveritySuccess, cfg.Severity)
	require.NotNil(t, cfg.Duration)
	assert.Equal(t, time.Second, *cfg.Duration)
}

func TestMessageEncoding(t *testing.T) {
	m := Message{Severity: toast.SeverityDanger}
	hints := m.Hints()
	assert.Equal(t, "danger", hints[SeverityHint].Value())
	assert.Equal(t, byte(UrgencyCritical), hints["urgency"].Value())
	assert.Equal(t, int32(-1), m.ExpireTimeout())

	m = Message{Severity: "nonsense", Duration: toast.Persistent()}
	assert.Equal(t, "info", m.Hints()[SeverityHint].Value())
	assert.Equal(t, byte(UrgencyNormal), m.Hints()["urgency"].Value())
	assert.Equal(t, int32(0), m.ExpireTimeout())

	m.Duration = toast.For(1500 * time.Millisecond)
	assert.Equal(t, int32(1500), m.ExpireTimeout())

	// A client encoded message decodes to the same toast.
	n := &DBusNotification{Hints: m.Hints(), ExpireTimeout: m.ExpireTimeout()}
	assert.Equal(t, toast.SeverityInfo, n.Severity())
	assert.Equal(t, 1500*time.Millisecond, *n.Duration())
}

func TestMessageExpireTimeoutBounds(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     int32
	}{
		{"sub millisecond rounds up", 500 * time.Microsecond, 1},
		{"one nanosecond", time.Nanosecond, 1},
		{"partial millisecond rounds up", 1500 * time.Microsecond, 2},
		{"exact", 2 * time.Second, 2000},
		{"beyond int32 clamps", 600 * time.Hour, math.MaxInt32},
		{"max duration clamps", time.Duration(math.MaxInt64), math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{Duration: toast.For(tt.duration)}
			assert.Equal(t, tt.want, m.ExpireTimeout())

			n := &DBusNotification{ExpireTimeout: m.ExpireTimeout()}
			require.NotNil(t, n.Duration())
			assert.Positive(t, *n.Duration(), "positive durations never persist")
		})
	}
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "toastd", info.Name)
	assert.Equal(t, "1.2", info.SpecVersion)
	assert.NotEmpty(t, info.Version)
}

func TestServerCapabilities(t *testing.T) {
	assert.Contains(t, ServerCapabilities, "body")
	assert.Contains(t, ServerCapabilities, SeverityHint)
	assert.NotContains(t, ServerCapabilities, "actions")
}
