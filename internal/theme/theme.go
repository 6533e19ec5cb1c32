package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// importRegex matches @import "file.css"; @import 'file.css'; and @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet.
type Theme struct {
	mu sync.RWMutex

	Name     string
	Path     string // empty for bundled stylesheets
	ModTime  time.Time
	Embedded bool

	css string
}

// ThemesDir returns the user stylesheet directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastd", "themes"), nil
}

// Load resolves a stylesheet by name: dir/<name>.css first, then the bundled
// copy. An empty dir skips the override lookup. Unknown names fall back to the
// bundled web stylesheet.
func Load(name, dir string) *Theme {
	if name == "" {
		name = WebThemeName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if t, err := NewTheme(name, path); err == nil {
			return t
		}
	}

	css, ok := GetEmbeddedTheme(name)
	if !ok {
		name = WebThemeName
		css, _ = GetEmbeddedTheme(name)
	}

	return &Theme{
		Name:     name,
		Embedded: true,
		css:      ProcessImports(css, "", nil),
	}
}

// NewTheme loads a stylesheet from path, inlining its imports.
func NewTheme(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		ModTime: info.ModTime(),
		css:     ProcessImports(string(css), filepath.Dir(path), nil),
	}, nil
}

// CSS returns the resolved stylesheet.
func (t *Theme) CSS() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.css
}

// Reload rereads a user stylesheet and reports whether its content changed.
// Bundled stylesheets never change.
func (t *Theme) Reload() (bool, error) {
	if t.Embedded {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	t.mu.RLock()
	unchanged := !info.ModTime().After(t.ModTime)
	t.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}
	css := ProcessImports(string(data), filepath.Dir(t.Path), nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	changed := css != t.css
	t.css = css
	t.ModTime = info.ModTime()
	return changed, nil
}

// ProcessImports inlines @import statements, resolving paths relative to
// baseDir and falling back to bundled partials. seen guards against cycles.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		sub := importRegex.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		importPath := sub[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import skipped: " + importPath + " */"
		}
		seen[fullPath] = true

		data, err := os.ReadFile(fullPath)
		if err != nil {
			base := filepath.Base(importPath)
			if embedded, ok := GetEmbeddedPartial(base); ok && strings.HasPrefix(base, "_") {
				return "/* imported (embedded): " + importPath + " */\n" + embedded
			}
			if embedded, ok := GetEmbeddedTheme(strings.TrimSuffix(base, ".css")); ok {
				return "/* imported (embedded): " + importPath + " */\n" + embedded
			}
			return "/* import failed: " + importPath + " */"
		}

		return "/* imported: " + importPath + " */\n" +
			ProcessImports(string(data), filepath.Dir(fullPath), seen)
	})
}
