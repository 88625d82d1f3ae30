package toggle

import (
	"context"
	"sync"
)

type key struct {
	viewerID  int64
	productID int64
}

// Registry keeps one controller per (viewer, product) pair while a toggle is in flight
type Registry struct {
	mu          sync.Mutex
	controllers map[key]*Controller
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[key]*Controller)}
}

// Toggle toggles the pair's controller, creating it from initial and api when the pair
// has none. The in-flight slot is claimed under the registry lock, so concurrent calls
// for one pair send a single request and the others get Ignored.
func (r *Registry) Toggle(ctx context.Context, viewerID, productID int64, initial bool, api FavoritesAPI) (*Controller, Result, error) {
	k := key{viewerID: viewerID, productID: productID}

	r.mu.Lock()
	c, ok := r.controllers[k]
	if !ok {
		c = New(productID, initial, api)
		r.controllers[k] = c
	}
	previous, claimed := c.claim()
	r.mu.Unlock()

	if !claimed {
		return c, Ignored, nil
	}

	result, err := c.complete(ctx, previous)
	r.release(k, c)
	return c, result, err
}

// Lookup returns the pair's live controller, if any
func (r *Registry) Lookup(viewerID, productID int64) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[key{viewerID: viewerID, productID: productID}]
	return c, ok
}

// Forget drops every controller held for the viewer, e.g. on logout
func (r *Registry) Forget(viewerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.controllers {
		if k.viewerID == viewerID {
			delete(r.controllers, k)
		}
	}
}

// Len returns the number of live controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// release drops c once it is idle and still the pair's controller
func (r *Registry) release(k key, c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.controllers[k]; ok && current == c && !c.Pending() {
		delete(r.controllers, k)
	}
}
