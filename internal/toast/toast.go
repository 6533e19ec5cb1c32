package toast

import (
	"time"
)

// Default timings. The grace period matches the 0.3s exit animation of the
// bundled stylesheet.
const (
	DefaultDuration = 5 * time.Second
	DefaultGrace    = 300 * time.Millisecond
)

// Handle identifies a notification created by Show.
// Handles are opaque; the only thing a caller does with one is dismiss it.
type Handle string

// String returns the handle as text, suitable for element IDs and URLs.
func (h Handle) String() string {
	return string(h)
}

// Config describes a notification to show.
type Config struct {
	Title    string   `json:"title,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity,omitempty"`

	// Duration is the auto-dismiss delay. Nil selects the manager default.
	// Zero or negative keeps the entry until it is dismissed.
	Duration *time.Duration `json:"-"`
}

// For returns a pointer to d, for use as Config.Duration.
func For(d time.Duration) *time.Duration {
	return &d
}

// Persistent is a Config.Duration value that disables auto-dismiss.
func Persistent() *time.Duration {
	return For(0)
}

// Entry is a snapshot of a notification as seen by surfaces and observers.
type Entry struct {
	Handle    Handle
	Title     string
	Message   string
	Severity  Severity
	State     State
	Duration  time.Duration // <= 0 means never auto-dismissed
	CreatedAt time.Time
}

// HasTitle reports whether a title row should be rendered.
func (e Entry) HasTitle() bool {
	return e.Title != ""
}

// Expires reports whether the entry auto-dismisses.
func (e Entry) Expires() bool {
	return e.Duration > 0
}

// ExpiresAt returns when the entry auto-dismisses, or the zero time.
func (e Entry) ExpiresAt() time.Time {
	if !e.Expires() {
		return time.Time{}
	}
	return e.CreatedAt.Add(e.Duration)
}

// Titles holds the default title used by each convenience wrapper.
type Titles struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// EnglishTitles are the default titles.
func EnglishTitles() Titles {
	return Titles{Success: "Success", Error: "Error", Warning: "Warning", Info: "Info"}
}

// PortugueseTitles are the titles the original design system shipped with.
func PortugueseTitles() Titles {
	return Titles{Success: "Sucesso", Error: "Erro", Warning: "Aviso", Info: "Info"}
}

// For returns the default title for a severity.
func (t Titles) For(s Severity) string {
	switch s.Normalize() {
	case SeveritySuccess:
		return t.Success
	case SeverityDanger:
		return t.Error
	case SeverityWarning:
		return t.Warning
	default:
		return t.Info
	}
}

// Defaults holds the tunables of a Manager.
type Defaults struct {
	Duration time.Duration // used when Config.Duration is nil
	Grace    time.Duration // delay between leaving and removed
	Titles   Titles

	// MaxVisible caps simultaneously active entries. Zero means unlimited.
	// When the cap is reached the oldest active entry is evicted.
	MaxVisible int
}

// DefaultDefaults returns the stock timings and English titles.
func DefaultDefaults() Defaults {
	return Defaults{
		Duration: DefaultDuration,
		Grace:    DefaultGrace,
		Titles:   EnglishTitles(),
	}
}

// withFallbacks fills zero-valued timings so a partially populated Defaults
// still behaves.
func (d Defaults) withFallbacks() Defaults {
	if d.Duration < 0 {
		d.Duration = 0
	}
	if d.Grace <= 0 {
		d.Grace = DefaultGrace
	}
	if d.MaxVisible < 0 {
		d.MaxVisible = 0
	}
	return d
}
