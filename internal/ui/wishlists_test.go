package ui

import (
	"testing"

	"github.com/five82/giftlist/internal/render"
	"github.com/five82/giftlist/internal/state"
	"github.com/five82/giftlist/internal/wishlist"
)

func TestBuildTargetsSkipsCollapsedRows(t *testing.T) {
	lists := []wishlist.Wishlist{
		momList(),
		{ID: 2, Name: "Dad", Person: "Dad", Items: []wishlist.Item{{ID: 20, Name: "Socks"}}},
	}
	vs := state.NewViewState()
	vs.SetExpanded(2, true)
	tree := render.Render(lists, vs, wishlist.RoleCreator.Capabilities())

	got := buildTargets(tree)
	want := []target{
		{wishlistID: 1},
		{wishlistID: 2},
		{wishlistID: 2, itemID: 20},
	}
	if len(got) != len(want) {
		t.Fatalf("targets = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("targets[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIndexOf(t *testing.T) {
	targets := []target{
		{wishlistID: 1},
		{wishlistID: 1, itemID: 10},
		{wishlistID: 2},
	}
	tests := []struct {
		name     string
		want     target
		fallback int
		expected int
	}{
		{"exact card", target{wishlistID: 2}, 0, 2},
		{"exact item", target{wishlistID: 1, itemID: 10}, 0, 1},
		{"missing item falls back to card", target{wishlistID: 2, itemID: 99}, 0, 2},
		{"missing card uses fallback", target{wishlistID: 7}, 1, 1},
		{"missing item and card uses fallback", target{wishlistID: 7, itemID: 70}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := indexOf(targets, tt.want, tt.fallback); got != tt.expected {
				t.Errorf("indexOf() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"https://shop.example/scarf", 10, "https:/..."},
		{"abcdef", 3, "abc"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
