// Package prefs handles giftlist user preferences persistence.
// Preferences are stored in ~/.config/giftlist/prefs.toml.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Prefs holds user preferences for giftlist.
type Prefs struct {
	Theme string `toml:"theme"`
}

const defaultPrefsPath = "~/.config/giftlist/prefs.toml"

// hasDarkBackground asks the terminal for its background colour. It stands
// in for the desktop colour-scheme preference when nothing is stored.
var hasDarkBackground = lipgloss.HasDarkBackground

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// DefaultTheme is the theme used when no preference is stored.
func DefaultTheme() string {
	if hasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func Toggle(theme string) string {
	if normalizeTheme(theme) == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: DefaultTheme()}, nil
	}
	p, err := read(resolved)
	if err != nil {
		return Prefs{Theme: DefaultTheme()}, nil // Graceful degradation
	}
	return p, nil
}

func read(resolved string) (Prefs, error) {
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Prefs{}, err
	}
	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Prefs{}, err
	}
	p.Theme = normalizeTheme(p.Theme)
	if p.Theme == "" {
		return Prefs{}, errors.New("no theme stored")
	}
	return p, nil
}

func normalizeTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return ""
	}
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	theme := normalizeTheme(p.Theme)
	if theme == "" {
		return fmt.Errorf("unknown theme %q", p.Theme)
	}
	p.Theme = theme

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// Write then rename so watchers never see a half-written file.
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Watch calls fn whenever another writer changes the preferences file. It
// blocks until ctx is done. Unparseable intermediate states are skipped.
func Watch(ctx context.Context, path string, fn func(Prefs)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched because Save replaces the file by rename.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch prefs dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != resolved {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p, err := read(resolved)
			if err != nil {
				continue
			}
			fn(p)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
