package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/giftlist/internal/wishlist"
)

// Snapshot represents the latest collection available to the UI.
type Snapshot struct {
	Wishlists           []wishlist.Wishlist
	HasData             bool
	Generation          uint64 // generation of the fetch that produced Wishlists
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the backend has failed several fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the last fetched collection. Each fetch reserves a generation
// with Begin; results from a generation older than the newest applied one
// are dropped so overlapping fetches resolve to the latest request.
type Store struct {
	mu       sync.RWMutex
	issued   uint64
	applied  uint64
	snapshot Snapshot
}

// Begin reserves the next fetch generation.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply records the outcome of the fetch tagged gen. It returns false when
// the result is stale and was discarded. On error the previous collection is
// kept and the error recorded.
func (s *Store) Apply(gen uint64, lists []wishlist.Wishlist, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.applied {
		return false
	}
	s.applied = gen

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Wishlists = wishlist.Clone(lists)
	s.snapshot.HasData = true
	s.snapshot.Generation = gen
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// PatchPurchased updates a single item from a confirmed toggle response
// without touching the rest of the collection.
func (s *Store) PatchPurchased(itemID int64, result wishlist.PurchaseResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Wishlists {
		items := s.snapshot.Wishlists[i].Items
		for j := range items {
			if items[j].ID != itemID {
				continue
			}
			items[j].Purchased = result.Purchased
			items[j].PurchaseDate = result.PurchaseDate
			return true
		}
	}
	return false
}

// Reset drops the collection. Fetches issued before the reset are
// discarded when they complete.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.applied = s.issued
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Wishlists = wishlist.Clone(s.snapshot.Wishlists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
