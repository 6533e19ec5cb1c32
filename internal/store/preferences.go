// Package store persists the small set of user preferences toastd keeps
// between runs. Notifications themselves are never stored.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/toastd/internal/theme"
)

// CurrentSchemaVersion is the current version of the preferences schema.
const CurrentSchemaVersion = 1

// Preferences is persisted to ~/.local/share/toastd/preferences.json
type Preferences struct {
	// Theme is the colour scheme chosen by the user. Empty until first set.
	Theme theme.Mode `json:"theme,omitempty"`

	UpdatedAt int64  `json:"updated_at,omitempty"` // Unix timestamp of the last change
	UpdatedBy string `json:"updated_by,omitempty"` // "cli", "web", "tui", ...

	SchemaVersion int `json:"schema_version"`
}

// prefsFileMutex serialises read-modify-write cycles within a process.
var prefsFileMutex sync.Mutex

// DataDir returns the toastd data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/toastd.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "toastd"), nil
}

// PreferencesPath returns the default preferences file path.
func PreferencesPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.json"), nil
}

// DefaultPreferences returns empty preferences at the current schema version.
func DefaultPreferences() *Preferences {
	return &Preferences{SchemaVersion: CurrentSchemaVersion}
}

// ThemeOr returns the stored theme, or fallback when none is stored.
func (p *Preferences) ThemeOr(fallback theme.Mode) theme.Mode {
	if p.Theme == "" {
		return fallback.OrDefault()
	}
	return p.Theme.OrDefault()
}

// SetTheme records a theme change.
func (p *Preferences) SetTheme(m theme.Mode, source string) {
	p.Theme = m.OrDefault()
	p.UpdatedAt = time.Now().Unix()
	p.UpdatedBy = source
}

// LoadPreferences reads the preferences at path.
// A missing or corrupt file yields defaults.
func LoadPreferences(path string) (*Preferences, error) {
	prefsFileMutex.Lock()
	defer prefsFileMutex.Unlock()
	return loadPreferences(path)
}

func loadPreferences(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreferences(), nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPreferences(), nil
	}
	if p.SchemaVersion == 0 {
		p.SchemaVersion = CurrentSchemaVersion
	}
	return &p, nil
}

// SavePreferences writes p to path atomically.
func SavePreferences(path string, p *Preferences) error {
	prefsFileMutex.Lock()
	defer prefsFileMutex.Unlock()
	return savePreferences(path, p)
}

func savePreferences(path string, p *Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if p.SchemaVersion == 0 {
		p.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Update loads the preferences, applies fn and saves the result.
func Update(path string, fn func(p *Preferences)) (*Preferences, error) {
	prefsFileMutex.Lock()
	defer prefsFileMutex.Unlock()

	p, err := loadPreferences(path)
	if err != nil {
		return nil, err
	}
	fn(p)
	if err := savePreferences(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleTheme flips the stored theme and returns the new mode.
// fallback is the mode assumed when nothing has been stored yet.
func ToggleTheme(path string, fallback theme.Mode, source string) (theme.Mode, error) {
	p, err := Update(path, func(p *Preferences) {
		p.SetTheme(p.ThemeOr(fallback).Toggle(), source)
	})
	if err != nil {
		return "", err
	}
	return p.Theme, nil
}
