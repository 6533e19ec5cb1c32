package dbus

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastd/internal/toast"
)

// Message is what "toastd send" puts on the bus.
type Message struct {
	AppName    string
	ReplacesID uint32
	Title      string
	Message    string
	Severity   toast.Severity
	// Duration follows toast.Config: nil means server default, <= 0 persists.
	Duration *time.Duration
}

// Hints encodes the severity as both the vendor hint and an urgency, so
// other notification servers still get a sensible level.
func (m Message) Hints() map[string]dbus.Variant {
	sev := m.Severity.Normalize()
	urgency := byte(UrgencyNormal)
	if sev == toast.SeverityDanger {
		urgency = UrgencyCritical
	}
	return map[string]dbus.Variant{
		SeverityHint: dbus.MakeVariant(string(sev)),
		"urgency":    dbus.MakeVariant(urgency),
	}
}

// ExpireTimeout encodes Duration for the Notify call. A positive duration
// always encodes as at least 1ms and at most math.MaxInt32 ms, so it never
// reads back as persistent or as the server default.
func (m Message) ExpireTimeout() int32 {
	switch {
	case m.Duration == nil:
		return -1
	case *m.Duration <= 0:
		return 0
	}
	ms := (*m.Duration + time.Millisecond - 1) / time.Millisecond
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}

// Client talks to whichever notification server owns the bus name.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Notify sends m and returns the server assigned notification ID.
func (c *Client) Notify(ctx context.Context, m Message) (uint32, error) {
	appName := m.AppName
	if appName == "" {
		appName = "toastd"
	}

	var id uint32
	call := c.obj.CallWithContext(ctx, DBusInterface+".Notify", 0,
		appName,
		m.ReplacesID,
		"",
		m.Title,
		m.Message,
		[]string{},
		m.Hints(),
		m.ExpireTimeout(),
	)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}
	return id, nil
}

// CloseNotification asks the server to close id.
func (c *Client) CloseNotification(ctx context.Context, id uint32) error {
	call := c.obj.CallWithContext(ctx, DBusInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("close notification %d: %w", id, call.Err)
	}
	return nil
}

// ServerInformation queries GetServerInformation.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("get server information: %w", err)
	}
	return info, nil
}
