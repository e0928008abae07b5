package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/giftlist/internal/render"
)

// target is one selectable line: a card header or an item row.
type target struct {
	wishlistID int64
	itemID     int64
}

func (t target) isItem() bool {
	return t.itemID != 0
}

// buildTargets lists selectable lines in display order. Rows of collapsed
// cards are not selectable.
func buildTargets(tree render.Tree) []target {
	var out []target
	for _, card := range tree.Cards {
		out = append(out, target{wishlistID: card.WishlistID})
		if !card.Expanded {
			continue
		}
		for _, row := range card.Rows {
			out = append(out, target{wishlistID: card.WishlistID, itemID: row.ItemID})
		}
	}
	return out
}

// indexOf finds want in targets. When want is gone, an item falls back to
// its card and anything else to fallback.
func indexOf(targets []target, want target, fallback int) int {
	for i, t := range targets {
		if t == want {
			return i
		}
	}
	if want.isItem() {
		card := target{wishlistID: want.wishlistID}
		for i, t := range targets {
			if t == card {
				return i
			}
		}
	}
	return fallback
}

// renderWishlists draws the tree and reports the line of the selection.
func (m Model) renderWishlists() (string, int) {
	styles := m.theme.Styles()
	if len(m.tree.Cards) == 0 {
		if !m.snapshot.HasData {
			if m.snapshot.LastError != nil {
				return styles.DangerText.Render("Could not load wishlists. Press r to retry."), 0
			}
			return styles.MutedText.Render("Loading wishlists..."), 0
		}
		return styles.MutedText.Render(render.NoWishlists), 0
	}

	var (
		lines        []string
		selectedLine int
	)
	for ci, card := range m.tree.Cards {
		if ci > 0 {
			lines = append(lines, "")
		}
		cardTarget := target{wishlistID: card.WishlistID}
		if cardTarget == m.selected {
			selectedLine = len(lines)
		}
		lines = append(lines, m.renderCardHeader(card, cardTarget == m.selected, styles))
		lines = append(lines, "    "+styles.MutedText.Render(card.Subtitle)+"  "+styles.FaintText.Render(card.ToggleLabel))
		if !card.Expanded {
			continue
		}
		if card.Placeholder != "" {
			lines = append(lines, "    "+styles.FaintText.Italic(true).Render(card.Placeholder))
			continue
		}
		for _, row := range card.Rows {
			rowTarget := target{wishlistID: card.WishlistID, itemID: row.ItemID}
			if rowTarget == m.selected {
				selectedLine = len(lines)
			}
			lines = append(lines, m.renderRow(row, rowTarget == m.selected, styles))
		}
	}
	return strings.Join(lines, "\n"), selectedLine
}

func (m Model) renderCardHeader(card render.Card, selected bool, styles Styles) string {
	marker := "▸"
	if card.Expanded {
		marker = "▾"
	}
	count := fmt.Sprintf("%d items", card.ItemCount)
	if card.ItemCount == 1 {
		count = "1 item"
	}
	title := fmt.Sprintf("%s %s", marker, card.Title)
	if selected {
		return styles.Selected.Bold(true).Render(" "+title+" ") + "  " + styles.FaintText.Render(count)
	}
	return " " + styles.Text.Bold(true).Render(title) + "   " + styles.FaintText.Render(count)
}

func (m Model) renderRow(row render.Row, selected bool, styles Styles) string {
	badgeKey := "pending"
	if row.Purchase.Style == render.StylePurchased {
		badgeKey = "purchased"
	}
	badge := styles.StatusStyle(badgeKey).Render(padRight(row.Purchase.Label, len(render.LabelPending)))

	name := row.Name
	nameStyle := styles.Text
	if row.Purchase.Style == render.StylePurchased {
		nameStyle = styles.MutedText.Strikethrough(true)
	}
	if selected {
		nameStyle = styles.Selected
		name = " " + name + " "
	}

	line := "      " + badge + " " + nameStyle.Render(name)
	if avail := m.width - lipgloss.Width(line) - 4; row.Link.Text != "" && m.width >= LayoutCompactWidth && avail > 3 {
		text := truncate(row.Link.Text, avail)
		if row.Link.Active {
			line += "  " + styles.Link.Render(text)
		} else {
			line += "  " + styles.FaintText.Render(text)
		}
	}
	return line
}

func (m *Model) updateListViewport() {
	if !m.ready {
		return
	}
	content, selectedLine := m.renderWishlists()
	m.listViewport.SetContent(content)

	// Keep the selection visible.
	if selectedLine < m.listViewport.YOffset {
		m.listViewport.SetYOffset(selectedLine)
	} else if bottom := m.listViewport.YOffset + m.listViewport.Height - 1; selectedLine > bottom {
		m.listViewport.SetYOffset(selectedLine - m.listViewport.Height + 1)
	}
}
