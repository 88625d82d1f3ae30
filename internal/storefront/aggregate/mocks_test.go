package aggregate

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/tair/storefront/internal/storefront/client"
	"github.com/tair/storefront/pkg/auth"
)

var errUpstream = errors.New("upstream exploded")

type fakeCatalog struct {
	products map[int64]*client.Product
	err      error
	delay    time.Duration
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID int64) (*client.Product, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	product, ok := f.products[productID]
	if !ok {
		return nil, client.ErrProductNotFound
	}
	return product, nil
}

type fakeReviews struct {
	summary *client.ReviewSummary
	err     error
	delay   time.Duration
}

func (f *fakeReviews) GetSummary(ctx context.Context, productID int64) (*client.ReviewSummary, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakeFavorites struct {
	favorited map[int64]bool
	list      []client.Favorite
	err       error
	delay     time.Duration
	calls     atomic.Int32
}

func (f *fakeFavorites) Exists(ctx context.Context, credential string, productID int64) (bool, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if f.err != nil {
		return false, f.err
	}
	return f.favorited[productID], nil
}

func (f *fakeFavorites) List(ctx context.Context, credential string) ([]client.Favorite, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type tokenResolver map[string]auth.Identity

func (t tokenResolver) Resolve(_ context.Context, credential string) (auth.Identity, bool) {
	identity, ok := t[credential]
	return identity, ok
}

func stock(n int) *int {
	return &n
}
