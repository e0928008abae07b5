package wishlist

import (
	"strings"
	"time"
)

// Wishlist mirrors one element of the /wishlists/ payload.
type Wishlist struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Person string `json:"person"`
	Items  []Item `json:"items"`
}

// Item is a single gift inside a wishlist. Item IDs are unique across the
// whole collection.
type Item struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Link         *string    `json:"link"`
	Purchased    bool       `json:"purchased"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

// HasLink reports whether the item carries a non-blank link.
func (i Item) HasLink() bool {
	return i.Link != nil && strings.TrimSpace(*i.Link) != ""
}

// LinkText returns the trimmed link or an empty string.
func (i Item) LinkText() string {
	if !i.HasLink() {
		return ""
	}
	return strings.TrimSpace(*i.Link)
}

// PurchaseResult mirrors the /items/{id}/purchase response.
type PurchaseResult struct {
	Purchased    bool       `json:"purchased"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

// NewWishlist is the body of POST /wishlists/.
type NewWishlist struct {
	Name   string `json:"name" validate:"required"`
	Person string `json:"person" validate:"required"`
}

// NewItem is the body of POST /wishlists/{id}/items/. An empty link is sent
// as null.
type NewItem struct {
	Name string  `json:"name" validate:"required"`
	Link *string `json:"link"`
}

// Normalize trims user input in place.
func (n *NewWishlist) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	n.Person = strings.TrimSpace(n.Person)
}

// Normalize trims user input and drops a blank link.
func (n *NewItem) Normalize() {
	n.Name = strings.TrimSpace(n.Name)
	if n.Link != nil {
		link := strings.TrimSpace(*n.Link)
		if link == "" {
			n.Link = nil
		} else {
			n.Link = &link
		}
	}
}

// FindItem locates an item by id across the collection.
func FindItem(lists []Wishlist, itemID int64) (Item, *Wishlist, bool) {
	for i := range lists {
		for _, item := range lists[i].Items {
			if item.ID == itemID {
				return item, &lists[i], true
			}
		}
	}
	return Item{}, nil, false
}

// Clone returns a deep copy of the collection.
func Clone(lists []Wishlist) []Wishlist {
	if lists == nil {
		return nil
	}
	dup := make([]Wishlist, len(lists))
	for i, wl := range lists {
		dup[i] = wl
		if wl.Items != nil {
			dup[i].Items = make([]Item, len(wl.Items))
			copy(dup[i].Items, wl.Items)
		}
	}
	return dup
}
