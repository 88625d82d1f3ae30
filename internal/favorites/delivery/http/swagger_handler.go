package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CheckFavorite godoc
// @Summary Check a favorite
// @Description Report whether the caller has favorited the product
// @Tags Favorites
// @Security CookieAuth
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{ok=bool,exists=bool}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/favorites/{id} [get]
func (h *FavoriteHandler) CheckFavoriteDoc() {}

// AddFavorite godoc
// @Summary Add a favorite
// @Description Favorite a product for the caller. Adding an existing favorite succeeds.
// @Tags Favorites
// @Security CookieAuth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{productId=int} true "Product to favorite"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 429 {object} object{ok=bool,error=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/favorites [post]
func (h *FavoriteHandler) AddFavoriteDoc() {}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Description Unfavorite a product. deleted is 1 when a favorite was removed and 0 when none existed.
// @Tags Favorites
// @Security CookieAuth
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{ok=bool,deleted=int}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 429 {object} object{ok=bool,error=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/favorites/{id} [delete]
func (h *FavoriteHandler) RemoveFavoriteDoc() {}

// ListFavorites godoc
// @Summary List favorites
// @Description List the caller's favorites, newest first
// @Tags Favorites
// @Security CookieAuth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{ok=bool,data=[]domain.Favorite}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/favorites [get]
func (h *FavoriteHandler) ListFavoritesDoc() {}
