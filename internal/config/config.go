// Package config handles toastd configuration loading, validation and hot reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastd/internal/toast"
)

// Default configuration values.
const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultLocale     = "en"
	DefaultWidth      = 350
	DefaultGap        = 8
	DefaultMaxVisible = 5
	DefaultVolume     = 80
)

// ErrUnknownFormat is returned by Encode for formats other than toml and yaml.
var ErrUnknownFormat = errors.New("unknown config format")

// Config represents the toastd configuration.
// Loaded from ~/.config/toastd/toastd.toml
type Config struct {
	Toast   ToastConfig   `toml:"toast" yaml:"toast"`
	Titles  TitlesConfig  `toml:"titles" yaml:"titles"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Audio   AudioConfig   `toml:"audio" yaml:"audio"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
}

// ToastConfig holds manager timings.
type ToastConfig struct {
	Duration   Duration `toml:"duration" yaml:"duration"`       // "5s", "5000", or "0" to persist
	Grace      Duration `toml:"grace" yaml:"grace"`             // exit animation length
	MaxVisible int      `toml:"max_visible" yaml:"max_visible"` // 0 = unlimited
	Locale     string   `toml:"locale" yaml:"locale"`           // "en" or "pt"
}

// TitlesConfig overrides the locale's default titles. Empty keeps the locale value.
type TitlesConfig struct {
	Success string `toml:"success" yaml:"success"`
	Error   string `toml:"error" yaml:"error"`
	Warning string `toml:"warning" yaml:"warning"`
	Info    string `toml:"info" yaml:"info"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	// AllowedOrigins enables CORS on the JSON API for these origins.
	AllowedOrigins []string `toml:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// DisplayConfig holds desktop popup geometry.
type DisplayConfig struct {
	Position string `toml:"position" yaml:"position"` // "top-right", "bottom-center", ...
	OffsetX  int    `toml:"offset_x" yaml:"offset_x"`
	OffsetY  int    `toml:"offset_y" yaml:"offset_y"`
	Width    int    `toml:"width" yaml:"width"`
	Gap      int    `toml:"gap" yaml:"gap"`
	Monitor  int    `toml:"monitor" yaml:"monitor"` // 0 = compositor's choice
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled" yaml:"enabled"`
	Volume  int         `toml:"volume" yaml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds" yaml:"sounds"`
}

// SoundConfig holds per-severity sound file paths. Empty plays nothing.
type SoundConfig struct {
	Success string `toml:"success" yaml:"success"`
	Danger  string `toml:"danger" yaml:"danger"`
	Warning string `toml:"warning" yaml:"warning"`
	Info    string `toml:"info" yaml:"info"`
}

// ThemeConfig holds appearance settings.
type ThemeConfig struct {
	// ColorScheme is used when no preference has been saved yet.
	ColorScheme string `toml:"color_scheme" yaml:"color_scheme"` // "light" or "dark"
}

// Position represents where desktop popups stack.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// locales maps a locale name to its default titles and close label.
var locales = map[string]struct {
	titles     toast.Titles
	closeLabel string
}{
	"en": {toast.EnglishTitles(), "Close"},
	"pt": {toast.PortugueseTitles(), "Fechar"},
}

// Locales returns the supported locale names, sorted.
func Locales() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: ToastConfig{
			Duration:   Duration(toast.DefaultDuration),
			Grace:      Duration(toast.DefaultGrace),
			MaxVisible: 0,
			Locale:     DefaultLocale,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Display: DisplayConfig{
			Position: string(PositionTopRight),
			OffsetX:  10,
			OffsetY:  10,
			Width:    DefaultWidth,
			Gap:      DefaultGap,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		Theme: ThemeConfig{
			ColorScheme: "light",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastd", "toastd.toml"), nil
}

// Load reads the configuration at path, or the default path when empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration atomically, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Encode renders the configuration as "toml" or "yaml".
func (c *Config) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Toast.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Toast.Duration.Duration())
	}
	if c.Toast.Grace < 0 {
		return fmt.Errorf("grace must not be negative, got %s", c.Toast.Grace.Duration())
	}
	if c.Toast.MaxVisible < 0 || c.Toast.MaxVisible > 50 {
		return fmt.Errorf("max_visible must be between 0 and 50, got %d", c.Toast.MaxVisible)
	}
	if _, ok := locales[c.Toast.Locale]; !ok {
		return fmt.Errorf("invalid locale %q, must be one of: %v", c.Toast.Locale, Locales())
	}

	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}
	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	switch c.Theme.ColorScheme {
	case "light", "dark":
	default:
		return fmt.Errorf("invalid color_scheme %q, must be light or dark", c.Theme.ColorScheme)
	}

	return nil
}

// ToastTitles returns the locale's default titles with any overrides applied.
func (c *Config) ToastTitles() toast.Titles {
	t := locales[c.Toast.Locale].titles
	if c.Titles.Success != "" {
		t.Success = c.Titles.Success
	}
	if c.Titles.Error != "" {
		t.Error = c.Titles.Error
	}
	if c.Titles.Warning != "" {
		t.Warning = c.Titles.Warning
	}
	if c.Titles.Info != "" {
		t.Info = c.Titles.Info
	}
	return t
}

// CloseLabel returns the accessible label for the close control.
func (c *Config) CloseLabel() string {
	if l, ok := locales[c.Toast.Locale]; ok {
		return l.closeLabel
	}
	return "Close"
}

// ToastDefaults converts the [toast] and [titles] sections for toast.Manager.
func (c *Config) ToastDefaults() toast.Defaults {
	return toast.Defaults{
		Duration:   c.Toast.Duration.Duration(),
		Grace:      c.Toast.Grace.Duration(),
		Titles:     c.ToastTitles(),
		MaxVisible: c.Toast.MaxVisible,
	}
}

// SoundFor returns the sound file for a severity, expanding a leading ~.
func (c *Config) SoundFor(s toast.Severity) string {
	var path string
	switch s.Normalize() {
	case toast.SeveritySuccess:
		path = c.Audio.Sounds.Success
	case toast.SeverityDanger:
		path = c.Audio.Sounds.Danger
	case toast.SeverityWarning:
		path = c.Audio.Sounds.Warning
	default:
		path = c.Audio.Sounds.Info
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
