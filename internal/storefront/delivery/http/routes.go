package http

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the storefront pages and the favorites pass-through
func RegisterRoutes(app *fiber.App, h *Handler, favorites *FavoritesProxy) {
	api := app.Group("/api")

	api.Get("/products/:id/view", h.GetProductView)
	api.Post("/products/:id/favorite/toggle", h.ToggleFavorite)
	api.Get("/account/favorites", h.ListAccountFavorites)

	api.All("/favorites", favorites.Handle)
	api.All("/favorites/*", favorites.Handle)
}

// ErrorHandler renders unhandled errors in the storefront envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"ok":        false,
		"error":     message,
		"path":      c.Path(),
		"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
