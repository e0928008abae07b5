package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/giftlist/internal/dispatch"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmMsg is emitted when the user accepts an intent.
type confirmMsg struct {
	intent dispatch.Intent
	typed  string
}

// confirmModal asks the user to accept a pending intent. Intents that
// require retyped text show an input and only accept on enter.
type confirmModal struct {
	intent dispatch.Intent
	input  textinput.Model
}

func newConfirmModal(intent dispatch.Intent) confirmModal {
	m := confirmModal{intent: intent}
	if intent.RequireText != "" {
		m.input = newInput("type the name to confirm", 0)
		m.input.Focus()
	}
	return m
}

func (c confirmModal) requiresText() bool {
	return c.intent.RequireText != ""
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	if c.requiresText() {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			return c, nil, true
		case key.Matches(keyMsg, keys.Confirm):
			return c, emit(confirmMsg{intent: c.intent, typed: c.input.Value()}), true
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes), key.Matches(keyMsg, keys.Confirm):
		return c, emit(confirmMsg{intent: c.intent}), true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.intent.Prompt))
	b.WriteString("\n\n")
	if c.requiresText() {
		b.WriteString(styles.MutedText.Render("Type \"" + c.intent.RequireText + "\" to delete it permanently."))
		b.WriteString("\n")
		b.WriteString(c.input.View())
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("enter confirm · esc cancel"))
	} else {
		b.WriteString(styles.FaintText.Render("y/enter yes · n/esc no"))
	}
	return placeModal(theme, width, height, b.String())
}

// formKind selects which mutation a form submits.
type formKind int

const (
	formNewWishlist formKind = iota
	formAddItem
)

// formSubmitMsg carries a form's raw values. The form stays open until the
// mutation succeeds.
type formSubmitMsg struct {
	kind       formKind
	wishlistID int64
	values     []string
}

type formModal struct {
	kind       formKind
	title      string
	wishlistID int64
	labels     []string
	inputs     []textinput.Model
	focus      int
	err        string
	busy       bool
}

func newWishlistForm() formModal {
	return newForm(formNewWishlist, "New wishlist", 0,
		[]string{"Wishlist name", "For whom"},
		[]string{"e.g. Birthday", "e.g. Mom"})
}

func newItemForm(wishlistID int64, wishlistName string) formModal {
	return newForm(formAddItem, "Add item to "+wishlistName, wishlistID,
		[]string{"Item name", "Link (optional)"},
		[]string{"e.g. Scarf", "https://"})
}

func newForm(kind formKind, title string, wishlistID int64, labels, placeholders []string) formModal {
	f := formModal{kind: kind, title: title, wishlistID: wishlistID, labels: labels}
	for i := range labels {
		in := newInput(placeholders[i], 256)
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()
	return f
}

func (f formModal) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

func (f formModal) withError(msg string) formModal {
	f.err = msg
	f.busy = false
	return f
}

func (f formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.NextField):
		f.setFocus((f.focus + 1) % len(f.inputs))
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		return f, nil, false
	case key.Matches(keyMsg, keys.Confirm):
		if f.busy {
			return f, nil, false
		}
		f.busy = true
		f.err = ""
		return f, emit(formSubmitMsg{kind: f.kind, wishlistID: f.wishlistID, values: f.values()}), false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *formModal) setFocus(idx int) {
	f.inputs[f.focus].Blur()
	f.focus = idx
	f.inputs[f.focus].Focus()
}

func (f formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := styles.MutedText.Render(f.labels[i])
		if i == f.focus {
			label = styles.AccentText.Bold(true).Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("tab next field · enter save · esc cancel"))
	return placeModal(theme, width, height, b.String())
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	if limit > 0 {
		in.CharLimit = limit
	}
	in.Width = ModalWidth - 8
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func placeModal(theme Theme, width, height int, content string) string {
	box := theme.Styles().Modal.Width(ModalWidth).Render(content)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
