package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/giftlist/internal/wishlist"
)

func sampleLists() []wishlist.Wishlist {
	return []wishlist.Wishlist{
		{ID: 1, Name: "Gifts for Mom", Person: "Mom", Items: []wishlist.Item{{ID: 10, Name: "Scarf"}, {ID: 11, Name: "Tea"}}},
		{ID: 2, Name: "Dad", Person: "Dad", Items: []wishlist.Item{}},
	}
}

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store

	gen := s.Begin()
	before := time.Now()
	if !s.Apply(gen, sampleLists(), nil) {
		t.Fatalf("Apply(gen %d) = false, want true", gen)
	}

	snap := s.Snapshot()
	if !snap.HasData || len(snap.Wishlists) != 2 || snap.Generation != gen {
		t.Fatalf("snapshot = %#v, want 2 lists at gen %d", snap, gen)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Wishlists[0].Items[0].Name = "changed"
	if got := s.Snapshot().Wishlists[0].Items[0].Name; got != "Scarf" {
		t.Fatalf("Snapshot should clone items; got %q want Scarf", got)
	}
}

func TestStore_StaleGenerationDiscarded(t *testing.T) {
	var s Store

	older := s.Begin()
	newer := s.Begin()

	if !s.Apply(newer, sampleLists()[:1], nil) {
		t.Fatalf("Apply(newer) = false, want true")
	}
	if s.Apply(older, sampleLists(), nil) {
		t.Fatalf("Apply(older) = true, want stale response discarded")
	}
	snap := s.Snapshot()
	if len(snap.Wishlists) != 1 || snap.Generation != newer {
		t.Fatalf("snapshot = %d lists gen %d, want 1 list gen %d", len(snap.Wishlists), snap.Generation, newer)
	}

	// A stale failure must not be recorded either.
	if s.Apply(older, nil, errors.New("late failure")) {
		t.Fatalf("stale error applied")
	}
	if s.Snapshot().LastError != nil {
		t.Fatalf("LastError = %v, want nil", s.Snapshot().LastError)
	}
}

func TestStore_ApplyErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Apply(s.Begin(), sampleLists(), nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Apply(s.Begin(), nil, origErr)

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Wishlists, prev.Wishlists) {
		t.Fatalf("wishlists changed on error: got %#v want %#v", snap.Wishlists, prev.Wishlists)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d offline=%v, want 1/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Apply(s.Begin(), nil, errors.New("again"))
	if !s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline() = false, want true after 2 failures")
	}
	s.Apply(s.Begin(), sampleLists(), nil)
	if s.Snapshot().ConsecutiveFailures != 0 {
		t.Fatalf("success should reset failures")
	}
}

func TestStore_PatchPurchasedTouchesOneItem(t *testing.T) {
	var s Store
	s.Apply(s.Begin(), sampleLists(), nil)

	date := time.Date(2024, 12, 24, 9, 0, 0, 0, time.UTC)
	if !s.PatchPurchased(11, wishlist.PurchaseResult{Purchased: true, PurchaseDate: &date}) {
		t.Fatalf("PatchPurchased(11) = false, want true")
	}
	if s.PatchPurchased(999, wishlist.PurchaseResult{Purchased: true}) {
		t.Fatalf("PatchPurchased(999) = true for a missing item")
	}

	items := s.Snapshot().Wishlists[0].Items
	if items[0].Purchased {
		t.Fatalf("neighbouring item changed: %#v", items[0])
	}
	if !items[1].Purchased || items[1].PurchaseDate == nil || !items[1].PurchaseDate.Equal(date) {
		t.Fatalf("patched item = %#v, want purchased on %v", items[1], date)
	}
}

func TestStore_ResetDiscardsInFlight(t *testing.T) {
	var s Store
	s.Apply(s.Begin(), sampleLists(), nil)
	inflight := s.Begin()
	s.Reset()

	if s.Snapshot().HasData {
		t.Fatalf("Reset kept data")
	}
	if s.Apply(inflight, sampleLists(), nil) {
		t.Fatalf("Apply(inflight) after reset = true, want discarded")
	}
	next := s.Begin()
	if next <= inflight {
		t.Fatalf("Begin after reset = %d, want > %d", next, inflight)
	}
	if !s.Apply(next, sampleLists(), nil) {
		t.Fatalf("Apply(next) after reset = false, want true")
	}
}
