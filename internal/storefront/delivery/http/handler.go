package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/storefront/internal/favorites/usecase"
	"github.com/tair/storefront/internal/storefront/aggregate"
	"github.com/tair/storefront/internal/storefront/client"
	"github.com/tair/storefront/internal/storefront/toggle"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/logger"
)

// ProductReader assembles product views
type ProductReader interface {
	Read(ctx context.Context, productID int64, credential string) (*aggregate.ProductView, error)
}

// FavoritesLister returns a viewer's hydrated favorites
type FavoritesLister interface {
	List(ctx context.Context, credential string) ([]aggregate.FavoriteItem, error)
}

// ViewerAPI binds the favorites service to one viewer's credential
type ViewerAPI func(credential string) toggle.FavoritesAPI

// Handler serves the storefront pages
type Handler struct {
	reader    ProductReader
	account   FavoritesLister
	resolver  auth.Resolver
	toggles   *toggle.Registry
	viewerAPI ViewerAPI
}

// NewHandler creates a new storefront handler
func NewHandler(reader ProductReader, account FavoritesLister, resolver auth.Resolver, toggles *toggle.Registry, viewerAPI ViewerAPI) *Handler {
	return &Handler{
		reader:    reader,
		account:   account,
		resolver:  resolver,
		toggles:   toggles,
		viewerAPI: viewerAPI,
	}
}

type toggleRequest struct {
	Favorite bool `json:"favorite"`
}

// credential returns the raw session credential, cookie first
func credential(c *fiber.Ctx) string {
	return auth.CredentialFromHeaders(c.Cookies(auth.CookieName), c.Get(fiber.HeaderAuthorization))
}

func productIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := usecase.ParseProductID(c.Params("id"))
	return id, err == nil
}

// GetProductView godoc
// @Summary Product detail view
// @Description Product snapshot with reviews, stock label and the viewer's favorite status
// @Tags storefront
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} aggregate.ProductView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id}/view [get]
func (h *Handler) GetProductView(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "Invalid productId")
	}

	view, err := h.reader.Read(c.UserContext(), productID, credential(c))
	if err != nil {
		if errors.Is(err, aggregate.ErrProductUnavailable) {
			return respondError(c, fiber.StatusNotFound, "Product not found")
		}
		logger.Error(c.UserContext()).Err(err).Int64("product_id", productID).Msg("Failed to build product view")
		return respondError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(view)
}

// ListAccountFavorites godoc
// @Summary Account favorites
// @Description The viewer's favorites joined with current product details, newest first
// @Tags storefront
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/account/favorites [get]
func (h *Handler) ListAccountFavorites(c *fiber.Ctx) error {
	items, err := h.account.List(c.UserContext(), credential(c))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		logger.Error(c.UserContext()).Err(err).Msg("Failed to list account favorites")
		return respondError(c, fiber.StatusBadGateway, "Favorites unavailable")
	}

	return c.JSON(fiber.Map{"ok": true, "data": items})
}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Flips the viewer's favorite flag for a product. Concurrent toggles of the same pair are rejected while one is in flight.
// @Tags storefront
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/products/{id}/favorite/toggle [post]
func (h *Handler) ToggleFavorite(c *fiber.Ctx) error {
	cred := credential(c)
	identity, ok := h.resolver.Resolve(c.UserContext(), cred)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	productID, ok := productIDParam(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "Invalid productId")
	}

	var req toggleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid request")
		}
	}

	ctrl, result, err := h.toggles.Toggle(c.UserContext(), identity.UserID, productID, req.Favorite, h.viewerAPI(cred))

	switch result {
	case toggle.Ignored:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"ok":          false,
			"error":       "Toggle already in progress",
			"is_favorite": ctrl.IsFavorite(),
		})
	case toggle.Reverted:
		status := fiber.StatusBadGateway
		message := "Favorite update failed"
		if errors.Is(err, client.ErrUnauthorized) {
			status = fiber.StatusUnauthorized
			message = "Unauthorized"
		}
		return c.Status(status).JSON(fiber.Map{
			"ok":          false,
			"error":       message,
			"is_favorite": ctrl.IsFavorite(),
		})
	}

	logger.Info(c.UserContext()).
		Int64("user_id", identity.UserID).
		Int64("product_id", productID).
		Bool("is_favorite", ctrl.IsFavorite()).
		Msg("Favorite toggled")

	return c.JSON(fiber.Map{
		"ok":          true,
		"is_favorite": ctrl.IsFavorite(),
		"result":      result.String(),
	})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": message})
}
