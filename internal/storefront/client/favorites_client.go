package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// FavoritesClient calls the favorites service on behalf of a viewer
type FavoritesClient struct {
	baseURL string
	http    *http.Client
}

// NewFavoritesClient creates a new favorites client
func NewFavoritesClient(baseURL string, httpClient *http.Client) *FavoritesClient {
	return &FavoritesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Exists reports whether the viewer favorited the product
func (c *FavoritesClient) Exists(ctx context.Context, credential string, productID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "favorites.Exists")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	var resp struct {
		Exists bool `json:"exists"`
	}
	url := fmt.Sprintf("%s/api/favorites/%d", c.baseURL, productID)
	if err := doJSON(ctx, c.http, "favorites", http.MethodGet, url, credential, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// Add favorites the product for the viewer
func (c *FavoritesClient) Add(ctx context.Context, credential string, productID int64) error {
	ctx, span := tracer.Start(ctx, "favorites.Add")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	body, err := json.Marshal(map[string]int64{"productId": productID})
	if err != nil {
		return err
	}
	return doJSON(ctx, c.http, "favorites", http.MethodPost, c.baseURL+"/api/favorites", credential, bytes.NewReader(body), nil)
}

// Remove unfavorites the product and returns how many favorites were removed
func (c *FavoritesClient) Remove(ctx context.Context, credential string, productID int64) (int64, error) {
	ctx, span := tracer.Start(ctx, "favorites.Remove")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	url := fmt.Sprintf("%s/api/favorites/%d", c.baseURL, productID)
	if err := doJSON(ctx, c.http, "favorites", http.MethodDelete, url, credential, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// List returns the viewer's favorites, newest first
func (c *FavoritesClient) List(ctx context.Context, credential string) ([]Favorite, error) {
	ctx, span := tracer.Start(ctx, "favorites.List")
	defer span.End()

	var resp struct {
		Data []Favorite `json:"data"`
	}
	if err := doJSON(ctx, c.http, "favorites", http.MethodGet, c.baseURL+"/api/favorites", credential, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ForViewer binds the client to one viewer's credential
func (c *FavoritesClient) ForViewer(credential string) *ViewerFavorites {
	return &ViewerFavorites{client: c, credential: credential}
}

// ViewerFavorites is a FavoritesClient bound to a single credential
type ViewerFavorites struct {
	client     *FavoritesClient
	credential string
}

// Add favorites the product
func (v *ViewerFavorites) Add(ctx context.Context, productID int64) error {
	return v.client.Add(ctx, v.credential, productID)
}

// Remove unfavorites the product
func (v *ViewerFavorites) Remove(ctx context.Context, productID int64) (int64, error) {
	return v.client.Remove(ctx, v.credential, productID)
}
