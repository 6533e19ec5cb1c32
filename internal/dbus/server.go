package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastd/internal/toast"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

// Notifier is the part of toast.Manager the server drives.
type Notifier interface {
	Show(cfg toast.Config) toast.Handle
	Close(h toast.Handle, reason toast.CloseReason) bool
	OnRemove(cb toast.RemoveCallback)
}

// emitter is satisfied by *dbus.Conn.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// NotificationServer implements the org.freedesktop.Notifications D-Bus
// interface on top of a toast manager.
type NotificationServer struct {
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	conn       *dbus.Conn
	emit       emitter
	nextID     uint32
	ids        map[uint32]toast.Handle
	handles    map[toast.Handle]uint32
	serverInfo ServerInfo
	running    bool
}

// NewNotificationServer creates a server that raises toasts on notifier and
// emits NotificationClosed whenever one of them is removed.
func NewNotificationServer(notifier Notifier, logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &NotificationServer{
		notifier:   notifier,
		logger:     logger,
		ids:        make(map[uint32]toast.Handle),
		handles:    make(map[toast.Handle]uint32),
		serverInfo: DefaultServerInfo(),
	}
	notifier.OnRemove(s.handleRemoved)
	return s
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	s.serverInfo = info
	s.mu.Unlock()
}

// Start connects to the session bus and exports the notification service.
func (s *NotificationServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: notificationMethods(),
				Signals: notificationSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.emit = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus notification server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}
	s.emit = nil

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// GetCapabilities returns the list of capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	s.logger.Debug("GetCapabilities called")
	return ServerCapabilities, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.mu.Lock()
	info := s.serverInfo
	s.mu.Unlock()
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Notify raises a toast for the request.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := &DBusNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}
	return s.NotifyInternal(n), nil
}

// NotifyInternal raises a toast without going through the bus and returns
// its notification ID. A known ReplacesID closes the old toast silently and
// reuses the ID; an unknown one gets a fresh ID.
func (s *NotificationServer) NotifyInternal(n *DBusNotification) uint32 {
	s.mu.Lock()
	var (
		id       uint32
		replaced toast.Handle
		hasOld   bool
	)
	if n.ReplacesID > 0 {
		replaced, hasOld = s.ids[n.ReplacesID]
	}
	if hasOld {
		id = n.ReplacesID
		delete(s.handles, replaced)
	} else {
		s.nextID++
		id = s.nextID
	}
	s.mu.Unlock()

	if hasOld {
		s.notifier.Close(replaced, toast.CloseReasonClosed)
	}

	h := s.notifier.Show(n.Config())

	s.mu.Lock()
	s.ids[id] = h
	s.handles[h] = id
	s.mu.Unlock()

	s.logger.Debug("notification received",
		"app_name", n.AppName,
		"id", id,
		"handle", h,
		"severity", n.Severity(),
		"replaces_id", n.ReplacesID,
	)
	return id
}

// CloseNotification closes a notification by ID. NotificationClosed is
// emitted once the toast finishes leaving.
// D-Bus method: CloseNotification(u) -> nothing
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.mu.Lock()
	h, ok := s.ids[id]
	s.mu.Unlock()

	s.logger.Debug("CloseNotification called", "id", id, "known", ok)
	if ok {
		s.notifier.Close(h, toast.CloseReasonClosed)
	}
	return nil
}

// Handle returns the toast handle currently bound to id.
func (s *NotificationServer) Handle(id uint32) (toast.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.ids[id]
	return h, ok
}

// IsActive returns true if the notification ID is currently bound to a toast.
func (s *NotificationServer) IsActive(id uint32) bool {
	_, ok := s.Handle(id)
	return ok
}

func (s *NotificationServer) handleRemoved(e toast.Entry, reason toast.CloseReason) {
	s.mu.Lock()
	id, ok := s.handles[e.Handle]
	if ok {
		delete(s.handles, e.Handle)
		if s.ids[id] == e.Handle {
			delete(s.ids, id)
		}
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.EmitNotificationClosed(id, closeReasonFor(reason)); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
}

// EmitNotificationClosed emits the NotificationClosed signal.
// Signal: NotificationClosed(id uint32, reason uint32)
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	s.mu.Lock()
	emit := s.emit
	s.mu.Unlock()

	if emit == nil {
		return nil
	}

	s.logger.Debug("emitting NotificationClosed", "id", id, "reason", reason)
	return emit.Emit(DBusPath, DBusInterface+".NotificationClosed", id, uint32(reason))
}

// notificationMethods returns the D-Bus method introspection data.
func notificationMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetCapabilities",
			Args: []introspect.Arg{
				{Name: "capabilities", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "spec_version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Notify",
			Args: []introspect.Arg{
				{Name: "app_name", Type: "s", Direction: "in"},
				{Name: "replaces_id", Type: "u", Direction: "in"},
				{Name: "app_icon", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "actions", Type: "as", Direction: "in"},
				{Name: "hints", Type: "a{sv}", Direction: "in"},
				{Name: "expire_timeout", Type: "i", Direction: "in"},
				{Name: "id", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "CloseNotification",
			Args: []introspect.Arg{
				{Name: "id", Type: "u", Direction: "in"},
			},
		},
	}
}

// notificationSignals returns the D-Bus signal introspection data.
func notificationSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
