package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastd/internal/toast"
)

// SeverityHint is the vendor hint carrying a toast severity verbatim.
const SeverityHint = "x-toastd-severity"

// Urgency levels of the freedesktop.org notification specification.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// CloseReason is the reason code carried by NotificationClosed.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is the reserved reason 4 of the notifications protocol.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// closeReasonFor maps a manager close reason to its D-Bus code.
func closeReasonFor(r toast.CloseReason) CloseReason {
	switch r {
	case toast.CloseReasonExpired:
		return CloseReasonExpired
	case toast.CloseReasonDismissed:
		return CloseReasonDismissed
	case toast.CloseReasonClosed:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// DBusNotification represents an incoming D-Bus Notify call.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // alternating key, label pairs; toastd ignores them
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint. Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
func (n *DBusNotification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Severity derives a toast severity: the x-toastd-severity hint wins, then
// error/warning/success style categories, then critical urgency.
func (n *DBusNotification) Severity() toast.Severity {
	if v, ok := n.Hints[SeverityHint]; ok {
		if s, ok := v.Value().(string); ok {
			return toast.ParseSeverity(s)
		}
	}

	category := n.Category()
	switch {
	case strings.HasSuffix(category, ".error"):
		return toast.SeverityDanger
	case strings.HasSuffix(category, ".warning"):
		return toast.SeverityWarning
	case strings.HasSuffix(category, ".complete"), strings.HasSuffix(category, ".success"):
		return toast.SeveritySuccess
	}

	if n.Urgency() == UrgencyCritical {
		return toast.SeverityDanger
	}
	return toast.SeverityInfo
}

// Duration converts ExpireTimeout: nil selects the manager default,
// zero persists, and positive values are milliseconds.
func (n *DBusNotification) Duration() *time.Duration {
	if n.ExpireTimeout < 0 {
		return nil
	}
	return toast.For(time.Duration(n.ExpireTimeout) * time.Millisecond)
}

// Config converts the call into a toast.Config. The summary becomes the title.
func (n *DBusNotification) Config() toast.Config {
	return toast.Config{
		Title:    n.Summary,
		Message:  n.Body,
		Severity: n.Severity(),
		Duration: n.Duration(),
	}
}

// ServerCapabilities lists the capabilities advertised by toastd.
var ServerCapabilities = []string{
	"body",
	SeverityHint,
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastd",
		Vendor:      "toastd",
		Version:     "0.0.1",
		SpecVersion: "1.2",
	}
}
