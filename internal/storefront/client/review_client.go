package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/storefront/pkg/circuitbreaker"
)

// ReviewClient fetches review summaries from the reviews service
type ReviewClient struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker
}

// NewReviewClient creates a new review client
func NewReviewClient(baseURL string, httpClient *http.Client, breaker *circuitbreaker.Breaker) *ReviewClient {
	return &ReviewClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: breaker,
	}
}

// Breaker exposes the client's circuit breaker for health reporting
func (c *ReviewClient) Breaker() *circuitbreaker.Breaker {
	return c.breaker
}

type reviewsResponse struct {
	Reviews    []Review `json:"reviews"`
	ReviewAvg  *float64 `json:"review_avg"`
	Pagination struct {
		TotalItems int `json:"totalItems"`
	} `json:"pagination"`
}

// GetSummary returns the first page of reviews with the average and total count
func (c *ReviewClient) GetSummary(ctx context.Context, productID int64) (*ReviewSummary, error) {
	ctx, span := tracer.Start(ctx, "reviews.GetSummary")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	var resp reviewsResponse
	url := fmt.Sprintf("%s/api/products/%d/reviews", c.baseURL, productID)

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return doJSON(ctx, c.http, "reviews", http.MethodGet, url, "", nil, &resp)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch reviews for product %d: %w", productID, err)
	}

	summary := &ReviewSummary{
		Reviews: resp.Reviews,
		Count:   resp.Pagination.TotalItems,
	}
	if summary.Reviews == nil {
		summary.Reviews = []Review{}
	}
	if resp.ReviewAvg != nil {
		summary.Average = *resp.ReviewAvg
	}
	span.SetAttributes(attribute.Int("reviews.count", summary.Count))
	return summary, nil
}
