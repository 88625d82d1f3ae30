package toggle

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tair/storefront/pkg/logger"
)

// State is the visible state of a favorite toggle
type State int

const (
	NotFavorited State = iota
	Favorited
	Pending
)

func (s State) String() string {
	switch s {
	case NotFavorited:
		return "not_favorited"
	case Favorited:
		return "favorited"
	case Pending:
		return "pending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result reports what a call to Toggle did
type Result int

const (
	// Committed means the server accepted the change
	Committed Result = iota
	// Reverted means the request failed and the previous value was restored
	Reverted
	// Ignored means a request was already in flight and nothing was sent
	Ignored
)

func (r Result) String() string {
	switch r {
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// FavoritesAPI is the viewer-bound favorites service
type FavoritesAPI interface {
	Add(ctx context.Context, productID int64) error
	Remove(ctx context.Context, productID int64) (int64, error)
}

// Controller owns the favorite flag of one product for one viewer
type Controller struct {
	productID int64
	api       FavoritesAPI

	mu        sync.Mutex
	favorite  bool
	pending   bool
	listeners []func(bool)
}

// New creates a controller seeded with the server-rendered value
func New(productID int64, initial bool, api FavoritesAPI) *Controller {
	return &Controller{
		productID: productID,
		api:       api,
		favorite:  initial,
	}
}

// ProductID returns the product the controller is bound to
func (c *Controller) ProductID() int64 {
	return c.productID
}

// IsFavorite returns the displayed value, which flips as soon as a toggle starts
func (c *Controller) IsFavorite() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.favorite
}

// Pending reports whether a request is in flight
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// State returns Pending while a request is in flight, otherwise the committed value
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.pending:
		return Pending
	case c.favorite:
		return Favorited
	default:
		return NotFavorited
	}
}

// OnChange registers fn to be called with the displayed value whenever it changes
func (c *Controller) OnChange(fn func(bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Toggle flips the flag, sends the matching request and reverts on failure.
// A call made while another request is in flight is ignored.
func (c *Controller) Toggle(ctx context.Context) (Result, error) {
	previous, ok := c.claim()
	if !ok {
		return Ignored, nil
	}
	return c.complete(ctx, previous)
}

// claim marks a request in flight and flips the displayed value.
// It reports false when a request is already in flight.
func (c *Controller) claim() (previous bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return false, false
	}
	previous = c.favorite
	c.pending = true
	c.favorite = !previous
	return previous, true
}

// complete sends the request for a claimed toggle and settles the outcome
func (c *Controller) complete(ctx context.Context, previous bool) (Result, error) {
	target := !previous

	c.mu.Lock()
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, target)

	var err error
	if target {
		err = c.api.Add(ctx, c.productID)
	} else {
		_, err = c.api.Remove(ctx, c.productID)
	}

	c.mu.Lock()
	c.pending = false
	if err != nil {
		c.favorite = previous
	}
	listeners = c.snapshotListeners()
	c.mu.Unlock()

	if err != nil {
		notify(listeners, previous)
		logger.Warn(ctx).
			Err(err).
			Int64("product_id", c.productID).
			Bool("favorite", previous).
			Msg("Favorite toggle reverted")
		return Reverted, fmt.Errorf("toggle favorite %d: %w", c.productID, err)
	}

	return Committed, nil
}

// caller holds c.mu
func (c *Controller) snapshotListeners() []func(bool) {
	return slices.Clone(c.listeners)
}

func notify(listeners []func(bool), value bool) {
	for _, fn := range listeners {
		fn(value)
	}
}
