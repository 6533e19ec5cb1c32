package toast

import "strings"

// Severity classifies a notification and selects its icon and colours.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severities returns every recognised severity in display order.
func Severities() []Severity {
	return []Severity{SeveritySuccess, SeverityDanger, SeverityWarning, SeverityInfo}
}

// ParseSeverity maps a string to a Severity.
// Matching ignores case and surrounding space. "error" is accepted as an alias
// for danger. Anything else falls back to info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return SeveritySuccess
	case "danger", "error":
		return SeverityDanger
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Valid reports whether s is one of the four recognised severities.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityDanger, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Normalize returns s if it is valid and info otherwise.
func (s Severity) Normalize() Severity {
	if s.Valid() {
		return s
	}
	return SeverityInfo
}

// Icon returns the icon key for the severity.
// Unknown severities use the info icon.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "check"
	case SeverityDanger:
		return "exclamation-circle"
	case SeverityWarning:
		return "exclamation-triangle"
	default:
		return "info-circle"
	}
}

// Class returns the CSS class applied to a toast container of this severity.
func (s Severity) Class() string {
	return "toast-" + string(s.Normalize())
}

func (s Severity) String() string {
	return string(s)
}
