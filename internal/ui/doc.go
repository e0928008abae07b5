// Package ui provides the terminal user interface for giftlist.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds the session (role, dispatcher,
// view state), the last applied snapshot and the rendered tree. Network
// calls run inside tea.Cmd functions and report back as messages:
//
//   - fetchedMsg: a fetch result tagged with the generation it reserved
//   - mutationMsg: the Outcome of a create, add, toggle or delete
//   - roleSwitchedMsg: the result of a role switch
//   - diagnosticsMsg: the parsed tail of the diagnostic log
//   - ThemeChangedMsg: a theme saved by another running instance
//
// # Rendering
//
// Every applied fetch rebuilds the whole tree with render.Render. A
// confirmed purchase toggle is the only exception: it patches one row's
// control in place with Tree.PatchPurchased and does not refetch.
//
// # Confirmation
//
// Toggle and delete actions open a confirm modal holding a dispatch.Intent.
// Nothing runs until the user answers. Wishlist deletion in strict mode asks
// for the wishlist name; a mismatch cancels with a notice on the status line.
//
// # Forms
//
// The new-wishlist and add-item forms stay open until the mutation succeeds.
// Blank required fields keep the typed values and show what is missing.
//
// # Role Switch
//
// R asks the backend for the other role. On success the session reloads:
// the store and view state reset, capabilities are derived again and a
// cache-busting fetch runs.
//
// # Key Bindings
//
//	j/k      move between wishlists and items
//	enter    expand or collapse the wishlist under the cursor
//	n        new wishlist (creator)
//	a        add item to the wishlist under the cursor (creator)
//	p        toggle purchased
//	d        delete item or wishlist (creator)
//	r        refresh
//	R        switch role
//	T        toggle light/dark theme
//	L        diagnostics log
//	h/?      help
//	e        quit
package ui
