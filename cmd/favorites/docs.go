package main

// @title Favorites Service API
// @version 1.0
// @description Per-user product favorites for the storefront
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/storefront

// @host localhost:8085
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name authToken

// @tag.name Favorites
// @tag.description Favorite check, add, remove and list

// @tag.name Health
// @tag.description Health check endpoints
