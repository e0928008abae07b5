package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/giftlist/internal/logtail"
)

// handleDiagnosticsKey processes keyboard input for the diagnostics view.
func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.diagnosticsCmd()
	case key.Matches(msg, m.keys.Top):
		m.diagViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.diagViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.diagViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.diagViewport.ScrollUp(1)
	}
	return m, nil
}

func (m *Model) updateDiagViewport() {
	if !m.ready {
		return
	}
	m.diagViewport.SetContent(m.renderDiagnostics())
	m.diagViewport.GotoBottom()
}

func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	switch {
	case m.diagErr != nil:
		return styles.DangerText.Render("Could not read log: " + m.diagErr.Error())
	case m.logPath == "":
		return styles.MutedText.Render("Diagnostic logging is disabled.")
	case len(m.diagEntries) == 0:
		return styles.MutedText.Render("No diagnostics yet in " + m.logPath)
	}

	lines := make([]string, 0, len(m.diagEntries))
	for _, e := range m.diagEntries {
		lines = append(lines, m.renderEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.Text.Render(e.Message)
	}
	ts := e.Time
	if len(ts) >= 19 {
		// 2026-10-19T10:00:00+02:00 -> 10:00:00
		ts = ts[11:19]
	}
	level := strings.ToUpper(e.Level)
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(ts))
	b.WriteString(" ")
	b.WriteString(styles.StatusStyle(e.Level).Render(padRight(level, 4)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	for _, k := range e.FieldKeys() {
		b.WriteString(" ")
		b.WriteString(styles.AccentText.Render(k + "="))
		b.WriteString(styles.MutedText.Render(e.Fields[k]))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
