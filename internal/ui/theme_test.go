package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/giftlist/internal/prefs"
)

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{prefs.ThemeLight, prefs.ThemeLight},
		{prefs.ThemeDark, prefs.ThemeDark},
		{"", prefs.ThemeDark},
		{"solarized", prefs.ThemeDark},
	}
	for _, tt := range tests {
		if got := GetTheme(tt.name).Name; got != tt.want {
			t.Errorf("GetTheme(%q).Name = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestThemesDefineBadgeColors(t *testing.T) {
	for _, theme := range []Theme{darkTheme(), lightTheme()} {
		for _, key := range []string{"purchased", "pending", "error", "warning", "info", "debug"} {
			if theme.StatusColors[key] == "" {
				t.Errorf("%s theme missing %q badge color", theme.Name, key)
			}
		}
	}
}

func TestStatusStyleFallsBackToMuted(t *testing.T) {
	theme := darkTheme()
	styles := theme.Styles()

	got := styles.StatusStyle("unknown").GetBackground()
	if got != lipgloss.Color(theme.Muted) {
		t.Fatalf("background = %v, want muted %s", got, theme.Muted)
	}
	got = styles.StatusStyle("purchased").GetBackground()
	if got != lipgloss.Color(theme.StatusColors["purchased"]) {
		t.Fatalf("background = %v, want purchased color", got)
	}
}
