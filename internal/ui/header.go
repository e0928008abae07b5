package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top bar: app name, role, counts and freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	on := func(s lipgloss.Style) lipgloss.Style { return s.Background(bg) }
	sep := on(lipgloss.NewStyle()).Render("  ")

	parts := []string{
		on(styles.Logo).Render("giftlist"),
		on(styles.MutedText).Render("role ") + on(styles.AccentText.Bold(true)).Render(string(m.role)),
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, on(styles.DangerText).Render("OFFLINE"))
	case m.snapshot.HasData:
		parts = append(parts, on(styles.Text).Render(countLabel(len(m.snapshot.Wishlists), "wishlist")))
		parts = append(parts, on(styles.Text).Render(countLabel(m.itemTotal(), "item")))
	default:
		parts = append(parts, on(styles.MutedText).Render("connecting"))
	}

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, on(styles.FaintText).Render("updated "+m.snapshot.LastUpdated.Format("15:04:05")))
	}
	if m.refresh > 0 {
		parts = append(parts, on(styles.FaintText).Render("auto "+m.refresh.String()))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar lists the actions available for the role and view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	keyStyle := styles.WarningText.Background(bg)
	descStyle := styles.MutedText.Background(bg)

	var cmds [][2]string
	if m.currentView == ViewDiagnostics {
		cmds = [][2]string{{"esc", "back"}, {"r", "reload"}, {"j/k", "scroll"}}
	} else {
		caps := m.caps()
		cmds = [][2]string{{"j/k", "move"}, {"enter", "expand"}}
		if caps.CanEdit {
			cmds = append(cmds, [2]string{"n", "new"})
		}
		if caps.CanAddItems {
			cmds = append(cmds, [2]string{"a", "add item"})
		}
		if caps.CanTogglePurchased {
			cmds = append(cmds, [2]string{"p", "purchased"})
		}
		if caps.CanDelete {
			cmds = append(cmds, [2]string{"d", "delete"})
		}
		cmds = append(cmds, [2]string{"R", "as " + string(m.role.Other())})
	}
	cmds = append(cmds, [2]string{"T", "theme"}, [2]string{"?", "help"}, [2]string{"e", "quit"})

	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts, keyStyle.Render(c[0])+descStyle.Render(" "+c[1]))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, descStyle.Render("  ")))
}

// renderStatusLine shows the cancellation notice or the last failure.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case m.notice != "":
		return styles.WarningText.Render(m.notice)
	case m.actionErr != nil:
		return styles.DangerText.Render(truncate("Last action failed: "+m.actionErr.Error(), m.width))
	case m.snapshot.LastError != nil:
		return styles.DangerText.Render(truncate("Last refresh failed: "+m.snapshot.LastError.Error(), m.width))
	default:
		return ""
	}
}

func (m Model) itemTotal() int {
	n := 0
	for _, wl := range m.snapshot.Wishlists {
		n += len(wl.Items)
	}
	return n
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
