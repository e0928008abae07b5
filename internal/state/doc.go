// Package state holds the client-side state of a giftlist session.
//
// # Overview
//
// Two independent pieces live here:
//
//   - Store: the last wishlist collection fetched from the backend, plus the
//     bookkeeping needed to reconcile overlapping fetches
//   - ViewState: which wishlists the user has expanded, kept apart from
//     server data so it survives every re-render
//
// # Fetch Generations
//
// Every mutation is followed by a full refetch, and an optional auto refresh
// may fire at any time, so two fetches can be in flight at once. Each fetch
// reserves a generation before it starts:
//
//	gen := store.Begin()
//	lists, err := client.FetchAll(ctx)
//	if store.Apply(gen, lists, err) {
//	    // render
//	}
//
// Apply drops results older than the newest applied generation. A response
// that arrives late can never overwrite a newer collection.
//
// # Failure Semantics
//
// A failed fetch keeps the previous collection (stale but not corrupted),
// records LastError and bumps ConsecutiveFailures. A success clears both.
//
// # Purchase Patches
//
// A confirmed purchase toggle patches exactly one item through
// PatchPurchased instead of refetching the collection.
//
// # View State
//
// ViewState is a plain value owned by one UI instance and passed to the
// renderer. Wishlists start collapsed. Setting the same state twice is a
// no-op, and ids that disappeared from the collection are ignored.
//
// # Concurrency
//
// Store is guarded by a sync.RWMutex because fetch commands complete on
// other goroutines. ViewState is not synchronized; it is only touched from
// the UI update loop.
package state
