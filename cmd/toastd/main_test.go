package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/internal/dbus"
	"github.com/jmylchreest/toastd/internal/toast"
)

// run executes the root command with isolated config and data directories.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name     string
		opts     sendOptions
		wantSev  toast.Severity
		wantTime int32
		wantErr  bool
	}{
		{"default", sendOptions{severity: "info"}, toast.SeverityInfo, -1, false},
		{"error alias", sendOptions{severity: "Error"}, toast.SeverityDanger, -1, false},
		{"warn alias", sendOptions{severity: "warn", duration: 2 * time.Second}, toast.SeverityWarning, 2000, false},
		{"persistent wins", sendOptions{severity: "success", duration: time.Second, persistent: true}, toast.SeveritySuccess, 0, false},
		{"unknown", sendOptions{severity: "loud"}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := sendMessage("hello", tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hello", msg.Message)
			assert.Equal(t, tt.wantSev, msg.Severity)
			assert.Equal(t, tt.wantTime, msg.ExpireTimeout())
		})
	}
}

type fakeBus struct {
	sent   []dbus.Message
	closed []uint32
	err    error
}

func (b *fakeBus) Notify(_ context.Context, m dbus.Message) (uint32, error) {
	b.sent = append(b.sent, m)
	return uint32(len(b.sent)), b.err
}

func (b *fakeBus) CloseNotification(_ context.Context, id uint32) error {
	b.closed = append(b.closed, id)
	return b.err
}

func (b *fakeBus) ServerInformation(context.Context) (dbus.ServerInfo, error) {
	if b.err != nil {
		return dbus.ServerInfo{}, b.err
	}
	return dbus.ServerInfo{Name: "toastd", Vendor: "jmylchreest", Version: "1.0.0", SpecVersion: "1.2"}, nil
}

func TestSendWith(t *testing.T) {
	ctx := context.Background()

	t.Run("notify prints id", func(t *testing.T) {
		bus := &fakeBus{}
		var out bytes.Buffer
		require.NoError(t, sendWith(ctx, &out, bus, "hello", sendOptions{severity: "success"}))
		assert.Equal(t, "1\n", out.String())
		require.Len(t, bus.sent, 1)
		assert.Equal(t, toast.SeveritySuccess, bus.sent[0].Severity)
	})

	t.Run("quiet", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, sendWith(ctx, &out, &fakeBus{}, "hello", sendOptions{severity: "info", quiet: true}))
		assert.Empty(t, out.String())
	})

	t.Run("close", func(t *testing.T) {
		bus := &fakeBus{}
		var out bytes.Buffer
		require.NoError(t, sendWith(ctx, &out, bus, "", sendOptions{close: 7}))
		assert.Equal(t, []uint32{7}, bus.closed)
		assert.Empty(t, bus.sent)
	})

	t.Run("server info", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, sendWith(ctx, &out, &fakeBus{}, "", sendOptions{serverInfo: true}))
		assert.Equal(t, "toastd 1.0.0 (jmylchreest, protocol 1.2)\n", out.String())
	})

	t.Run("bus error", func(t *testing.T) {
		bus := &fakeBus{err: errors.New("no owner")}
		var out bytes.Buffer
		assert.Error(t, sendWith(ctx, &out, bus, "", sendOptions{close: 3}))
		assert.Error(t, sendWith(ctx, &out, bus, "", sendOptions{serverInfo: true}))
	})
}

func TestThemeCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	exec := func(args ...string) string {
		out.Reset()
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	assert.Equal(t, "light\n", exec("theme", "get"))
	assert.Equal(t, "Theme: dark\n", exec("theme", "toggle"))
	assert.Equal(t, "dark\n", exec("theme", "get"))
	assert.Equal(t, "Theme: light\n", exec("theme", "set", "LIGHT"))
	assert.Equal(t, "light\n", exec("theme"))
}

func TestThemeSet_Invalid(t *testing.T) {
	_, err := run(t, "theme", "set", "sepia")
	require.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("toastd", "toastd.toml"))

	out, err = run(t, "config", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "server:")
	assert.Contains(t, out, "127.0.0.1:8080")
}
