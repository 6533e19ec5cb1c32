package theme

import (
	"fmt"
	"strings"
)

// Mode is the colour scheme preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// DefaultMode applies when no preference has been stored.
const DefaultMode = ModeLight

// ParseMode parses "light" or "dark", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLight:
		return ModeLight, nil
	case ModeDark:
		return ModeDark, nil
	default:
		return "", fmt.Errorf("invalid theme %q, must be light or dark", s)
	}
}

// OrDefault returns m, or DefaultMode when m is not a known mode.
func (m Mode) OrDefault() Mode {
	if m == ModeDark {
		return ModeDark
	}
	return DefaultMode
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m.OrDefault() == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// ToggleIcon is the icon on the control that switches away from m:
// a sun while dark, a moon while light.
func (m Mode) ToggleIcon() string {
	if m.OrDefault() == ModeDark {
		return "sun"
	}
	return "moon"
}

func (m Mode) String() string {
	return string(m)
}
