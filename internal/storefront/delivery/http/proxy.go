package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/storefront/pkg/logger"
)

// hop-by-hop headers are never forwarded
var hopHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
	"te":                true,
	"trailer":           true,
	"host":              true,
	"content-length":    true,
}

// FavoritesProxy forwards /api/favorites requests to the favorites service
type FavoritesProxy struct {
	baseURL string
	client  *http.Client
}

// NewFavoritesProxy creates a new proxy. httpClient should carry trace propagation.
func NewFavoritesProxy(baseURL string, httpClient *http.Client) *FavoritesProxy {
	return &FavoritesProxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// Handle forwards the request and copies the upstream answer back
func (p *FavoritesProxy) Handle(c *fiber.Ctx) error {
	target := p.baseURL + string(c.Request().URI().Path())
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}

	req, err := http.NewRequestWithContext(c.UserContext(), c.Method(), target, bytes.NewReader(c.Body()))
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		if hopHeaders[strings.ToLower(string(key))] {
			return
		}
		req.Header.Add(string(key), string(value))
	})
	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error(c.UserContext()).
			Err(err).
			Str("target", target).
			Msg("Favorites service unreachable")
		return respondError(c, fiber.StatusBadGateway, "Favorites unavailable")
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if hopHeaders[strings.ToLower(key)] {
			continue
		}
		for _, value := range values {
			c.Response().Header.Add(key, value)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return respondError(c, fiber.StatusBadGateway, "Favorites unavailable")
	}

	return c.Status(resp.StatusCode).Send(body)
}
