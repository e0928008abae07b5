// Package dispatch executes user mutations against the wishlist backend.
//
// Destructive and state-changing actions go through two steps: a Prepare
// call builds an Intent carrying the confirmation prompt, and Confirm runs
// it once the user has answered. Nothing blocks while the prompt is shown;
// a declined intent is simply dropped by the caller.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/giftlist/internal/wishlist"
)

var (
	// ErrNotPermitted is returned when the role lacks the capability.
	ErrNotPermitted = errors.New("action not permitted for this role")
	// ErrConfirmationMismatch is returned when the retyped name does not
	// match in strict delete mode.
	ErrConfirmationMismatch = errors.New("confirmation text did not match")
)

// NoticeDeleteCancelled is shown when a strict delete is abandoned.
const NoticeDeleteCancelled = "Deletion cancelled: name did not match"

// Kind identifies what an Intent will do when confirmed.
type Kind int

const (
	KindTogglePurchased Kind = iota + 1
	KindDeleteItem
	KindDeleteWishlist
)

func (k Kind) String() string {
	switch k {
	case KindTogglePurchased:
		return "toggle_purchased"
	case KindDeleteItem:
		return "delete_item"
	case KindDeleteWishlist:
		return "delete_wishlist"
	default:
		return "unknown"
	}
}

// Intent is a pending action awaiting confirmation.
type Intent struct {
	Kind     Kind
	TargetID int64
	Name     string
	Prompt   string
	// RequireText, when set, must be retyped exactly to confirm.
	RequireText string
}

// Patch replaces the purchase state of one item without a refetch.
type Patch struct {
	ItemID int64
	Result wishlist.PurchaseResult
}

// Outcome tells the caller what to do after an action.
type Outcome struct {
	Refetch     bool
	ClearInputs bool
	Reload      bool
	Patch       *Patch
	Notice      string
}

// Options tunes a Dispatcher.
type Options struct {
	// StrictDelete requires retyping a wishlist's name before deleting it.
	StrictDelete bool
}

// Dispatcher runs mutations for one session. Capabilities are fixed at
// construction; a role switch builds a new Dispatcher.
type Dispatcher struct {
	client       wishlist.API
	caps         wishlist.Capabilities
	log          logrus.FieldLogger
	strictDelete bool
}

// New returns a Dispatcher bound to client and caps.
func New(client wishlist.API, caps wishlist.Capabilities, log logrus.FieldLogger, opts Options) *Dispatcher {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Dispatcher{
		client:       client,
		caps:         caps,
		log:          log,
		strictDelete: opts.StrictDelete,
	}
}

// Capabilities reports what the session's role may do.
func (d *Dispatcher) Capabilities() wishlist.Capabilities {
	return d.caps
}

// CreateWishlist creates a wishlist from raw form input.
func (d *Dispatcher) CreateWishlist(ctx context.Context, name, person string) (Outcome, error) {
	if !d.caps.CanEdit {
		return Outcome{}, d.denied("create_wishlist", logrus.Fields{})
	}
	payload := wishlist.NewWishlist{Name: name, Person: person}
	payload.Normalize()
	if err := wishlist.Validate(payload); err != nil {
		d.log.WithField("op", "create_wishlist").WithError(err).Debug("input rejected")
		return Outcome{}, err
	}
	created, err := d.client.CreateWishlist(ctx, payload)
	if err != nil {
		d.failed("create_wishlist", logrus.Fields{"name": payload.Name}, err)
		return Outcome{}, fmt.Errorf("create wishlist: %w", err)
	}
	d.log.WithFields(logrus.Fields{"op": "create_wishlist", "wishlist_id": created.ID}).Info("wishlist created")
	return Outcome{Refetch: true, ClearInputs: true}, nil
}

// AddItem adds an item to a wishlist. A blank name sends nothing and the
// caller keeps its inputs.
func (d *Dispatcher) AddItem(ctx context.Context, wishlistID int64, name, link string) (Outcome, error) {
	if !d.caps.CanAddItems {
		return Outcome{}, d.denied("add_item", logrus.Fields{"wishlist_id": wishlistID})
	}
	payload := wishlist.NewItem{Name: name, Link: &link}
	payload.Normalize()
	if err := wishlist.Validate(payload); err != nil {
		d.log.WithFields(logrus.Fields{"op": "add_item", "wishlist_id": wishlistID}).WithError(err).Debug("input rejected")
		return Outcome{}, err
	}
	created, err := d.client.AddItem(ctx, wishlistID, payload)
	if err != nil {
		d.failed("add_item", logrus.Fields{"wishlist_id": wishlistID}, err)
		return Outcome{}, fmt.Errorf("add item: %w", err)
	}
	d.log.WithFields(logrus.Fields{"op": "add_item", "wishlist_id": wishlistID, "item_id": created.ID}).Info("item added")
	return Outcome{Refetch: true, ClearInputs: true}, nil
}

// PrepareToggle builds the intent to flip an item's purchased flag.
func (d *Dispatcher) PrepareToggle(item wishlist.Item) (Intent, error) {
	if !d.caps.CanTogglePurchased {
		return Intent{}, d.denied("toggle_purchased", logrus.Fields{"item_id": item.ID})
	}
	target := "purchased"
	if item.Purchased {
		target = "not purchased"
	}
	return Intent{
		Kind:     KindTogglePurchased,
		TargetID: item.ID,
		Name:     item.Name,
		Prompt:   fmt.Sprintf(`Are you sure you want to mark "%s" as %s?`, item.Name, target),
	}, nil
}

// PrepareDeleteItem builds the intent to delete one item.
func (d *Dispatcher) PrepareDeleteItem(item wishlist.Item) (Intent, error) {
	if !d.caps.CanDelete {
		return Intent{}, d.denied("delete_item", logrus.Fields{"item_id": item.ID})
	}
	return Intent{
		Kind:     KindDeleteItem,
		TargetID: item.ID,
		Name:     item.Name,
		Prompt:   fmt.Sprintf(`Are you sure you want to delete "%s"?`, item.Name),
	}, nil
}

// PrepareDeleteWishlist builds the intent to delete a wishlist with all of
// its items.
func (d *Dispatcher) PrepareDeleteWishlist(wl wishlist.Wishlist) (Intent, error) {
	if !d.caps.CanDelete {
		return Intent{}, d.denied("delete_wishlist", logrus.Fields{"wishlist_id": wl.ID})
	}
	prompt := fmt.Sprintf(`Are you sure you want to delete "%s"?`, wl.Name)
	if n := len(wl.Items); n > 0 {
		prompt = fmt.Sprintf(`Are you sure you want to delete "%s" and its %d items?`, wl.Name, n)
	}
	intent := Intent{
		Kind:     KindDeleteWishlist,
		TargetID: wl.ID,
		Name:     wl.Name,
		Prompt:   prompt,
	}
	if d.strictDelete {
		intent.RequireText = wl.Name
	}
	return intent, nil
}

// Confirm executes an accepted intent. typed is the retyped name for
// intents that require it and is ignored otherwise.
func (d *Dispatcher) Confirm(ctx context.Context, intent Intent, typed string) (Outcome, error) {
	switch intent.Kind {
	case KindTogglePurchased:
		return d.togglePurchased(ctx, intent)
	case KindDeleteItem:
		return d.deleteItem(ctx, intent)
	case KindDeleteWishlist:
		return d.deleteWishlist(ctx, intent, typed)
	default:
		return Outcome{}, fmt.Errorf("unknown intent kind %d", intent.Kind)
	}
}

func (d *Dispatcher) togglePurchased(ctx context.Context, intent Intent) (Outcome, error) {
	fields := logrus.Fields{"item_id": intent.TargetID}
	if !d.caps.CanTogglePurchased {
		return Outcome{}, d.denied("toggle_purchased", fields)
	}
	result, err := d.client.TogglePurchased(ctx, intent.TargetID)
	if err != nil {
		d.failed("toggle_purchased", fields, err)
		return Outcome{}, fmt.Errorf("toggle purchased: %w", err)
	}
	return Outcome{Patch: &Patch{ItemID: intent.TargetID, Result: result}}, nil
}

func (d *Dispatcher) deleteItem(ctx context.Context, intent Intent) (Outcome, error) {
	fields := logrus.Fields{"item_id": intent.TargetID}
	if !d.caps.CanDelete {
		return Outcome{}, d.denied("delete_item", fields)
	}
	if err := d.client.DeleteItem(ctx, intent.TargetID); err != nil {
		d.failed("delete_item", fields, err)
		return Outcome{}, fmt.Errorf("delete item: %w", err)
	}
	return Outcome{Refetch: true}, nil
}

func (d *Dispatcher) deleteWishlist(ctx context.Context, intent Intent, typed string) (Outcome, error) {
	fields := logrus.Fields{"wishlist_id": intent.TargetID}
	if !d.caps.CanDelete {
		return Outcome{}, d.denied("delete_wishlist", fields)
	}
	if intent.RequireText != "" && strings.TrimSpace(typed) != strings.TrimSpace(intent.RequireText) {
		d.log.WithFields(fields).WithField("op", "delete_wishlist").Info("delete cancelled, name mismatch")
		return Outcome{Notice: NoticeDeleteCancelled}, ErrConfirmationMismatch
	}
	if err := d.client.DeleteWishlist(ctx, intent.TargetID); err != nil {
		d.failed("delete_wishlist", fields, err)
		return Outcome{}, fmt.Errorf("delete wishlist: %w", err)
	}
	return Outcome{Refetch: true}, nil
}

// SwitchRole asks the backend for a new role. On success the session must
// be reloaded so capabilities are derived again.
func (d *Dispatcher) SwitchRole(ctx context.Context, target wishlist.Role) (Outcome, error) {
	fields := logrus.Fields{"role": string(target)}
	if err := d.client.SetRole(ctx, target); err != nil {
		d.failed("switch_role", fields, err)
		return Outcome{}, fmt.Errorf("switch role: %w", err)
	}
	d.log.WithFields(fields).WithField("op", "switch_role").Info("role switched")
	return Outcome{Reload: true}, nil
}

func (d *Dispatcher) denied(op string, fields logrus.Fields) error {
	d.log.WithFields(fields).WithField("op", op).Warn("action not permitted")
	return ErrNotPermitted
}

func (d *Dispatcher) failed(op string, fields logrus.Fields, err error) {
	entry := d.log.WithFields(fields).WithField("op", op)
	var httpErr *wishlist.HTTPError
	if errors.As(err, &httpErr) {
		entry = entry.WithFields(logrus.Fields{
			"status": httpErr.Status,
			"body":   httpErr.Body,
			"path":   httpErr.Path,
		})
	}
	var netErr *wishlist.NetworkError
	if errors.As(err, &netErr) {
		entry = entry.WithField("path", netErr.Path)
	}
	entry.WithError(err).Error("request failed")
}
