package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/toastd/internal/config"
	"github.com/jmylchreest/toastd/internal/toast"
)

// Manager plays the configured sound for each toast severity.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	sounds  map[toast.Severity]string

	// play is swapped out in tests.
	play func(path string) error
}

// NewManager creates a manager from the audio section of cfg.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	player := NewPlayer(logger)
	m := &Manager{
		logger: logger,
		player: player,
		play:   player.Play,
	}
	m.watcher = NewWatcher(player.Invalidate, logger)
	m.apply(cfg)
	return m
}

// apply resolves sound paths from cfg. Missing files are logged and skipped.
func (m *Manager) apply(cfg *config.Config) {
	sounds := make(map[toast.Severity]string)
	for _, sev := range toast.Severities() {
		path := cfg.SoundFor(sev)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "severity", sev, "path", path)
			continue
		}
		sounds[sev] = path
	}

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()
}

// Start preloads the configured sounds and watches them for edits.
func (m *Manager) Start(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	m.preload()
	if err := m.watcher.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(m.Sounds()))
	return nil
}

func (m *Manager) preload() {
	for sev, path := range m.Sounds() {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "severity", sev, "path", path, "error", err)
		}
		if err := m.watcher.Watch(path); err != nil {
			m.logger.Warn("failed to watch sound", "path", path, "error", err)
		}
	}
}

// Stop shuts down the watcher and the speaker.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
}

// Enabled reports whether sounds are played at all.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Sounds returns a copy of the severity to file mapping.
func (m *Manager) Sounds() map[toast.Severity]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[toast.Severity]string, len(m.sounds))
	for k, v := range m.sounds {
		out[k] = v
	}
	return out
}

// PlayFor plays the sound for sev, if audio is enabled and one is configured.
func (m *Manager) PlayFor(sev toast.Severity) error {
	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[sev.Normalize()]
	m.mu.RUnlock()

	if !enabled || !ok {
		return nil
	}
	return m.play(path)
}

// OnShow is a toast.ShowCallback.
func (m *Manager) OnShow(e toast.Entry) {
	if err := m.PlayFor(e.Severity); err != nil {
		m.logger.Warn("failed to play sound", "handle", e.Handle, "severity", e.Severity, "error", err)
	}
}

// UpdateConfig applies a reloaded configuration.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.player.ClearCache()
	m.apply(cfg)
	if m.Enabled() {
		m.preload()
	}
	m.logger.Debug("audio config updated")
}
