package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/tair/storefront/pkg/circuitbreaker"
)

var tracer = otel.Tracer("storefront-client")

// CatalogClient fetches product snapshots from the catalog service
type CatalogClient struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker
	cache   *SnapshotCache
	group   singleflight.Group
}

// NewCatalogClient creates a new catalog client. cache may be nil.
func NewCatalogClient(baseURL string, httpClient *http.Client, breaker *circuitbreaker.Breaker, cache *SnapshotCache) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: breaker,
		cache:   cache,
	}
}

// Breaker exposes the client's circuit breaker for health reporting
func (c *CatalogClient) Breaker() *circuitbreaker.Breaker {
	return c.breaker
}

// GetProduct returns the product snapshot, ErrProductNotFound, or an upstream error
func (c *CatalogClient) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	if product, ok := c.cache.Get(ctx, productID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return product, nil
	}

	// Concurrent views of the same product share one upstream call, which must not
	// die with whichever caller started it. The HTTP client timeout still bounds it.
	key := strconv.FormatInt(productID, 10)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), productID)
	})
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Bool("singleflight.shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	product := v.(*Product)
	c.cache.Set(ctx, product)
	return product, nil
}

func (c *CatalogClient) fetch(ctx context.Context, productID int64) (*Product, error) {
	var product Product
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, productID)

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.http, "catalog", http.MethodGet, url, "", nil, &product)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", productID, err)
	}
	if product.ID == 0 {
		product.ID = productID
	}
	return &product, nil
}
