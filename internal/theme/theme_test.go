package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme(t *testing.T) {
	css, found := GetEmbeddedTheme(WebThemeName)
	require.True(t, found)
	assert.Contains(t, css, ".toast-container")
	assert.Contains(t, css, "@keyframes toast-slide-in")
	assert.Contains(t, css, "0.3s")

	css, found = GetEmbeddedTheme(GTKThemeName)
	require.True(t, found)
	assert.Contains(t, css, "@window_bg_color")

	_, found = GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
}

func TestGetEmbeddedPartial(t *testing.T) {
	for _, name := range []string{"palette", "_palette", "_palette.css"} {
		css, found := GetEmbeddedPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, `[data-theme="dark"]`)
	}
}

func TestListEmbeddedThemes(t *testing.T) {
	names := ListEmbeddedThemes()
	assert.ElementsMatch(t, []string{WebThemeName, GTKThemeName}, names)
}

func TestLoad_Bundled(t *testing.T) {
	th := Load("", "")
	assert.Equal(t, WebThemeName, th.Name)
	assert.True(t, th.Embedded)
	assert.Contains(t, th.CSS(), "/* imported (embedded): _palette.css */")
	assert.Contains(t, th.CSS(), "--toast-success")
	assert.NotContains(t, th.CSS(), "@import")

	th = Load("missing", t.TempDir())
	assert.Equal(t, WebThemeName, th.Name)
}

func TestLoad_UserOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toast.css"), []byte(`.toast { color: hotpink; }`), 0644))

	th := Load(WebThemeName, dir)
	assert.False(t, th.Embedded)
	assert.Equal(t, filepath.Join(dir, "toast.css"), th.Path)
	assert.Contains(t, th.CSS(), "hotpink")
}

func TestProcessImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_colors.css"), []byte(`:root { --custom: #ff0000; }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte(`@import "b.css";`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.css"), []byte(`@import "a.css";`), 0644))

	result := ProcessImports(`@import "_colors.css";
.toast { color: var(--custom); }`, dir, nil)
	assert.Contains(t, result, "/* imported: _colors.css */")
	assert.Contains(t, result, "--custom: #ff0000")

	result = ProcessImports(`@import "a.css";`, dir, nil)
	assert.Contains(t, result, "circular import skipped")

	result = ProcessImports(`@import url('nope.css');`, dir, nil)
	assert.Contains(t, result, "/* import failed: nope.css */")
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "_partial.css"`, "_partial.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2)
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestTheme_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toast.css")
	require.NoError(t, os.WriteFile(path, []byte(`.toast { color: red; }`), 0644))

	th, err := NewTheme("toast", path)
	require.NoError(t, err)

	changed, err := th.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte(`.toast { color: blue; }`), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	changed, err = th.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, th.CSS(), "blue")

	changed, err = Load("", "").Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toast.css")
	require.NoError(t, os.WriteFile(path, []byte(`.toast { color: red; }`), 0644))

	th, err := NewTheme("toast", path)
	require.NoError(t, err)

	w := NewWatcher(th, nil)
	got := make(chan string, 4)
	w.SetChangeCallback(func(css string) { got <- css })
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Ensure a later mtime even on filesystems with coarse timestamps.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`.toast { color: green; }`), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case css := <-got:
		assert.Contains(t, css, "green")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for stylesheet reload")
	}
}

func TestWatcher_IgnoresBundled(t *testing.T) {
	w := NewWatcher(Load("", ""), nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}
