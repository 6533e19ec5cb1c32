package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for recoverable problems.
	NotificationLevelWarning
	// NotificationLevelError is for failures the user must act on.
	NotificationLevelError
)

// Severity maps the level onto a toast severity.
func (l NotificationLevel) Severity() toast.Severity {
	switch l {
	case NotificationLevelWarning:
		return toast.SeverityWarning
	case NotificationLevelError:
		return toast.SeverityDanger
	default:
		return toast.SeverityInfo
	}
}

// Shower is the part of toast.Manager the notifier needs.
type Shower interface {
	Show(cfg toast.Config) toast.Handle
}

// InternalNotifier raises toasts about toastd's own events, such as a config
// reload. Repeats of the same key inside MinInterval are dropped.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	shower Shower
	now    func() time.Time

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	enabled        bool
}

// DefaultMinInterval is the default gap between repeats of one key.
const DefaultMinInterval = 5 * time.Second

// NewInternalNotifier creates a notifier that shows toasts through shower.
func NewInternalNotifier(shower Shower, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		shower:         shower,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    DefaultMinInterval,
		enabled:        true,
	}
}

// SetClock replaces the time source used for rate limiting.
func (n *InternalNotifier) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows a toast unless key was notified within the minimum interval.
// It reports whether a toast was shown.
func (n *InternalNotifier) Notify(key, title, message string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled || n.shower == nil {
		n.mu.Unlock()
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
		return false
	}
	n.lastNotifyTime[key] = now
	shower := n.shower
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "title", title, "level", level)

	// Show calls back into surfaces, so it runs without n.mu held.
	shower.Show(toast.Config{
		Title:    title,
		Message:  message,
		Severity: level.Severity(),
	})
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration Reloaded",
		"toastd configuration has been reloaded.", NotificationLevelInfo)
}

// NotifyConfigError reports a config file that failed to parse or validate.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration Error",
		"Failed to reload configuration: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeReloaded reports a stylesheet change.
func (n *InternalNotifier) NotifyThemeReloaded(name string) {
	n.Notify("theme-reload", "Theme Reloaded",
		"Theme '"+name+"' has been reloaded.", NotificationLevelInfo)
}

// NotifyThemeError reports a stylesheet that could not be loaded.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme Error",
		"Failed to load theme: "+err.Error(), NotificationLevelWarning)
}
