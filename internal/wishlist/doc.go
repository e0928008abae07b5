// Package wishlist provides the data model and HTTP client for the wishlist
// backend.
//
// # Endpoints
//
//	GET    /wishlists/                 full collection with nested items
//	POST   /wishlists/                 {name, person}
//	DELETE /wishlists/{id}
//	POST   /wishlists/{id}/items/      {name, link}
//	DELETE /items/{id}
//	POST   /items/{id}/purchase        -> {purchased, purchase_date?}
//	POST   /set-role                   {role: "creator"|"viewer"}, sets the role cookie
//
// # Roles
//
// The backend hands out a role cookie. The Client keeps it in a cookie jar
// and Client.Role reads it back; Role.Capabilities turns it into the set of
// actions the front end exposes. Viewers may only toggle purchased.
//
// # Errors
//
// Every call returns one of:
//
//   - *NetworkError: the request never completed (dial failure, timeout,
//     context cancellation, rate limiter wait aborted)
//   - *HTTPError: the backend answered with a non-2xx status; Body holds a
//     truncated copy of the response for diagnostics
//   - *ValidationError: a payload was rejected locally and nothing was sent
//
// Decode failures are wrapped with "decode response". Nothing is retried.
package wishlist
