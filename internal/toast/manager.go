package toast

import (
	"crypto/rand"
	"log/slog"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"
)

// ShowCallback is called after an entry has been appended to the surface.
type ShowCallback func(e Entry)

// RemoveCallback is called after an entry has been detached from the surface.
type RemoveCallback func(e Entry, reason CloseReason)

// entry is the manager's private record for a notification.
type entry struct {
	Entry
	timer   Timer // auto-dismiss; nil when persistent or already leaving
	removal Timer // grace period timer while leaving
	reason  CloseReason
}

// Manager renders, sequences and retires notifications on a Surface.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	surface  Surface
	clock    Clock
	logger   *slog.Logger
	defaults Defaults
	attached bool

	entries map[Handle]*entry
	order   []Handle // append order of entries still on the surface
	entropy *ulid.MonotonicEntropy

	onShow   []ShowCallback
	onRemove []RemoveCallback
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithLogger sets the logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDefaults overrides the default duration, grace period, titles and cap.
func WithDefaults(d Defaults) Option {
	return func(m *Manager) {
		m.defaults = d.withFallbacks()
	}
}

// New creates a manager that renders into surface.
// A nil surface is replaced with NopSurface.
func New(surface Surface, opts ...Option) *Manager {
	if surface == nil {
		surface = NopSurface{}
	}

	m := &Manager{
		surface:  surface,
		clock:    SystemClock{},
		logger:   slog.Default(),
		defaults: DefaultDefaults(),
		entries:  make(map[Handle]*entry),
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnShow registers a callback invoked for every new entry.
func (m *Manager) OnShow(cb ShowCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onShow = append(m.onShow, cb)
}

// OnRemove registers a callback invoked when an entry is detached.
func (m *Manager) OnRemove(cb RemoveCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRemove = append(m.onRemove, cb)
}

// Defaults returns the current defaults.
func (m *Manager) Defaults() Defaults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaults
}

// SetDefaults replaces the defaults. Entries already shown keep their timers.
func (m *Manager) SetDefaults(d Defaults) {
	m.mu.Lock()
	m.defaults = d.withFallbacks()
	m.mu.Unlock()

	m.logger.Debug("toast defaults updated",
		"duration", d.Duration,
		"grace", d.Grace,
		"max_visible", d.MaxVisible,
	)
}

// EnsureSurface attaches the surface on first use. Later calls do nothing.
func (m *Manager) EnsureSurface() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSurfaceLocked()
}

func (m *Manager) ensureSurfaceLocked() {
	if m.attached {
		return
	}
	m.surface.Attach()
	m.attached = true
	m.logger.Debug("toast surface attached")
}

// Show appends a notification and returns its handle.
// It always succeeds; an empty message renders an empty body.
func (m *Manager) Show(cfg Config) Handle {
	m.mu.Lock()
	m.ensureSurfaceLocked()

	duration := m.defaults.Duration
	if cfg.Duration != nil {
		duration = *cfg.Duration
	}
	if duration < 0 {
		duration = 0
	}

	if limit := m.defaults.MaxVisible; limit > 0 {
		for m.activeCountLocked() >= limit {
			oldest := m.oldestActiveLocked()
			if oldest == nil || !m.leaveLocked(oldest, CloseReasonEvicted) {
				break
			}
		}
	}

	e := &entry{Entry: Entry{
		Handle:    m.newHandleLocked(),
		Title:     cfg.Title,
		Message:   cfg.Message,
		Severity:  cfg.Severity.Normalize(),
		State:     StateEntering,
		Duration:  duration,
		CreatedAt: m.clock.Now(),
	}}
	m.entries[e.Handle] = e
	m.order = append(m.order, e.Handle)

	m.surface.Append(e.Entry)
	m.transitionLocked(e, StateVisible)

	if duration > 0 {
		h := e.Handle
		e.timer = m.clock.AfterFunc(duration, func() {
			m.Close(h, CloseReasonExpired)
		})
	}

	snapshot := e.Entry
	callbacks := slices.Clone(m.onShow)
	m.mu.Unlock()

	m.logger.Debug("showed toast",
		"handle", snapshot.Handle,
		"severity", snapshot.Severity,
		"duration", snapshot.Duration,
	)

	for _, cb := range callbacks {
		cb(snapshot)
	}

	return snapshot.Handle
}

// Success shows a success notification. Without a title argument the
// configured default title is used; an explicit empty title hides the title row.
func (m *Manager) Success(message string, title ...string) Handle {
	return m.showWithTitle(SeveritySuccess, message, title)
}

// Error shows a danger notification.
func (m *Manager) Error(message string, title ...string) Handle {
	return m.showWithTitle(SeverityDanger, message, title)
}

// Warning shows a warning notification.
func (m *Manager) Warning(message string, title ...string) Handle {
	return m.showWithTitle(SeverityWarning, message, title)
}

// Info shows an info notification.
func (m *Manager) Info(message string, title ...string) Handle {
	return m.showWithTitle(SeverityInfo, message, title)
}

func (m *Manager) showWithTitle(severity Severity, message string, title []string) Handle {
	var t string
	if len(title) > 0 {
		t = title[0]
	} else {
		t = m.Defaults().Titles.For(severity)
	}
	return m.Show(Config{Title: t, Message: message, Severity: severity})
}

// Dismiss starts the exit of an entry and removes it after the grace period.
// It reports whether the entry was active; dismissing a leaving, removed or
// unknown handle does nothing.
func (m *Manager) Dismiss(h Handle) bool {
	return m.Close(h, CloseReasonDismissed)
}

// Close is Dismiss with an explicit reason, reported to OnRemove callbacks.
func (m *Manager) Close(h Handle, reason CloseReason) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[h]
	if !ok {
		m.logger.Debug("ignoring close of unknown toast", "handle", h, "reason", reason)
		return false
	}
	if !m.leaveLocked(e, reason) {
		m.logger.Debug("ignoring close of inactive toast", "handle", h, "state", e.State, "reason", reason)
		return false
	}
	return true
}

// DismissAll dismisses every active entry and returns how many there were.
func (m *Manager) DismissAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, h := range slices.Clone(m.order) {
		if e := m.entries[h]; e != nil && m.leaveLocked(e, CloseReasonDismissed) {
			count++
		}
	}
	return count
}

// leaveLocked moves e to leaving and schedules its removal. Caller must hold the lock.
func (m *Manager) leaveLocked(e *entry, reason CloseReason) bool {
	if !m.transitionLocked(e, StateLeaving) {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.reason = reason

	h := e.Handle
	e.removal = m.clock.AfterFunc(m.defaults.Grace, func() {
		m.remove(h)
	})

	m.logger.Debug("toast leaving", "handle", h, "reason", reason)
	return true
}

// remove detaches a leaving entry once its grace period is over.
func (m *Manager) remove(h Handle) {
	m.mu.Lock()
	e, ok := m.entries[h]
	if !ok || !m.transitionLocked(e, StateRemoved) {
		m.mu.Unlock()
		return
	}
	m.detachLocked(e)

	snapshot := e.Entry
	reason := e.reason
	callbacks := slices.Clone(m.onRemove)
	m.mu.Unlock()

	m.logger.Debug("removed toast", "handle", h, "reason", reason)

	for _, cb := range callbacks {
		cb(snapshot, reason)
	}
}

// detachLocked drops e from the surface and the index. Caller must hold the lock.
func (m *Manager) detachLocked(e *entry) {
	e.timer = nil
	e.removal = nil
	delete(m.entries, e.Handle)
	m.order = slices.DeleteFunc(m.order, func(h Handle) bool { return h == e.Handle })
	m.surface.Remove(e.Handle)
}

// transitionLocked applies a lifecycle edge if it is legal. Surfaces see every
// state change except removal, which they observe through Remove.
func (m *Manager) transitionLocked(e *entry, next State) bool {
	if !e.State.CanTransition(next) {
		return false
	}
	e.State = next
	if next != StateRemoved {
		m.surface.Update(e.Entry)
	}
	return true
}

// Shutdown cancels every timer and detaches every entry immediately.
// The manager stays usable afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	removed := make([]Entry, 0, len(m.order))
	reasons := make([]CloseReason, 0, len(m.order))
	for _, h := range slices.Clone(m.order) {
		e := m.entries[h]
		if e == nil {
			continue
		}
		if e.timer != nil {
			e.timer.Stop()
		}
		if e.removal != nil {
			e.removal.Stop()
		}
		reason := e.reason
		if reason == 0 {
			reason = CloseReasonClosed
		}
		e.State = StateRemoved
		m.detachLocked(e)
		removed = append(removed, e.Entry)
		reasons = append(reasons, reason)
	}
	callbacks := slices.Clone(m.onRemove)
	m.mu.Unlock()

	for i, e := range removed {
		for _, cb := range callbacks {
			cb(e, reasons[i])
		}
	}

	m.logger.Debug("toast manager shut down", "removed", len(removed))
}

// Get returns a snapshot of the entry for h.
func (m *Manager) Get(h Handle) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[h]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Entries returns snapshots of every entry on the surface, in append order.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, len(m.order))
	for _, h := range m.order {
		out = append(out, m.entries[h].Entry)
	}
	return out
}

// Len returns the number of entries on the surface, leaving ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// ActiveCount returns the number of entries that can still be dismissed.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeCountLocked()
}

func (m *Manager) activeCountLocked() int {
	count := 0
	for _, h := range m.order {
		if m.entries[h].State.Active() {
			count++
		}
	}
	return count
}

func (m *Manager) oldestActiveLocked() *entry {
	for _, h := range m.order {
		if e := m.entries[h]; e.State.Active() {
			return e
		}
	}
	return nil
}

// newHandleLocked returns a fresh ULID handle. Caller must hold the lock.
func (m *Manager) newHandleLocked() Handle {
	id, err := ulid.New(ulid.Timestamp(m.clock.Now()), m.entropy)
	if err != nil {
		// Monotonic entropy overflows only after 2^80 IDs in one millisecond.
		id = ulid.Make()
	}
	return Handle(id.String())
}
