// Package render turns a fetched wishlist collection into a display tree.
//
// Render is a pure function of the collection, the view state and the role's
// capabilities. It builds a fresh tree on every call, so calling it twice
// with the same inputs yields equal trees and nothing accumulates.
package render

import (
	"fmt"
	"strings"

	"github.com/five82/giftlist/internal/state"
	"github.com/five82/giftlist/internal/wishlist"
)

// Labels shown by the renderer.
const (
	EmptyPlaceholder = "No items in this wishlist yet"
	LabelPurchased   = "Purchased"
	LabelPending     = "Not Purchased"
	LabelCollapse    = "Click to collapse"
	LabelExpand      = "Click to expand"
	NoWishlists      = "No wishlists yet"
)

// ControlStyle selects how a purchase control is drawn.
type ControlStyle int

const (
	StylePending ControlStyle = iota
	StylePurchased
)

// Tree is the full display for one render pass.
type Tree struct {
	Cards []Card
	Caps  wishlist.Capabilities
}

// Card is one wishlist.
type Card struct {
	WishlistID  int64
	Title       string
	Subtitle    string
	Expanded    bool
	ToggleLabel string
	ItemCount   int
	CanDelete   bool
	CanAddItems bool
	Rows        []Row
	Placeholder string
}

// Row is one item inside a card.
type Row struct {
	ItemID    int64
	Name      string
	Link      Link
	Purchase  Control
	CanDelete bool
}

// Link is an item's optional link. Active links are followable; purchased
// items show the link as plain text.
type Link struct {
	Text   string
	Active bool
}

// Control is the purchase toggle for a row.
type Control struct {
	Label   string
	Style   ControlStyle
	Enabled bool
}

// Render builds the display tree.
func Render(lists []wishlist.Wishlist, vs *state.ViewState, caps wishlist.Capabilities) Tree {
	tree := Tree{Caps: caps, Cards: make([]Card, 0, len(lists))}
	for _, wl := range lists {
		tree.Cards = append(tree.Cards, renderCard(wl, vs, caps))
	}
	return tree
}

func renderCard(wl wishlist.Wishlist, vs *state.ViewState, caps wishlist.Capabilities) Card {
	expanded := vs.IsExpanded(wl.ID)
	card := Card{
		WishlistID:  wl.ID,
		Title:       wl.Name,
		Subtitle:    "For: " + wl.Person,
		Expanded:    expanded,
		ToggleLabel: LabelExpand,
		ItemCount:   len(wl.Items),
		CanDelete:   caps.CanDelete,
		CanAddItems: caps.CanAddItems,
		Rows:        make([]Row, 0, len(wl.Items)),
	}
	if expanded {
		card.ToggleLabel = LabelCollapse
	}
	for _, item := range wl.Items {
		card.Rows = append(card.Rows, renderRow(item, caps))
	}
	if len(card.Rows) == 0 {
		card.Placeholder = EmptyPlaceholder
	}
	return card
}

func renderRow(item wishlist.Item, caps wishlist.Capabilities) Row {
	row := Row{
		ItemID:    item.ID,
		Name:      item.Name,
		Purchase:  purchaseControl(item.Purchased, caps),
		CanDelete: caps.CanDelete,
	}
	if item.HasLink() {
		row.Link = Link{Text: item.LinkText(), Active: !item.Purchased}
	}
	return row
}

func purchaseControl(purchased bool, caps wishlist.Capabilities) Control {
	if purchased {
		return Control{Label: LabelPurchased, Style: StylePurchased, Enabled: caps.CanTogglePurchased}
	}
	return Control{Label: LabelPending, Style: StylePending, Enabled: caps.CanTogglePurchased}
}

// Control returns the purchase control of the item, if rendered.
func (t Tree) Control(itemID int64) (Control, bool) {
	for _, card := range t.Cards {
		for _, row := range card.Rows {
			if row.ItemID == itemID {
				return row.Purchase, true
			}
		}
	}
	return Control{}, false
}

// PatchPurchased rewrites only the purchase control of one row. The link
// and every other row stay as rendered until the next full render.
func (t *Tree) PatchPurchased(itemID int64, purchased bool) bool {
	for c := range t.Cards {
		rows := t.Cards[c].Rows
		for r := range rows {
			if rows[r].ItemID == itemID {
				rows[r].Purchase = purchaseControl(purchased, t.Caps)
				return true
			}
		}
	}
	return false
}

// Text renders the tree as plain text, one line per element.
func Text(t Tree) string {
	if len(t.Cards) == 0 {
		return NoWishlists + "\n"
	}
	var b strings.Builder
	for i, card := range t.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := "▸"
		if card.Expanded {
			marker = "▾"
		}
		fmt.Fprintf(&b, "%s %s (#%d)\n", marker, card.Title, card.WishlistID)
		fmt.Fprintf(&b, "  %s · %d items\n", card.Subtitle, card.ItemCount)
		if !card.Expanded {
			continue
		}
		if card.Placeholder != "" {
			fmt.Fprintf(&b, "    %s\n", card.Placeholder)
			continue
		}
		for _, row := range card.Rows {
			line := fmt.Sprintf("    [%s] %s (#%d)", row.Purchase.Label, row.Name, row.ItemID)
			if row.Link.Text != "" {
				if row.Link.Active {
					line += " <" + row.Link.Text + ">"
				} else {
					line += " " + row.Link.Text
				}
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
