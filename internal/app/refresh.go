package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/giftlist/internal/state"
	"github.com/five82/giftlist/internal/wishlist"
)

// refresh performs one tagged fetch into the store. The returned error is
// the fetch error; the store keeps its previous collection when it fails.
func refresh(ctx context.Context, store *state.Store, client wishlist.API, log logrus.FieldLogger) error {
	gen := store.Begin()
	lists, err := client.FetchAll(ctx)
	store.Apply(gen, lists, err)
	if err != nil {
		log.WithError(err).WithField("generation", gen).Warn("fetch wishlists failed")
		return err
	}
	log.WithFields(logrus.Fields{"generation": gen, "wishlists": len(lists)}).Debug("fetched wishlists")
	return nil
}
