package main

// @title Storefront API
// @version 1.0
// @description Product detail pages and account favorites for the storefront

// @contact.name API Support
// @contact.url http://github.com/tair/storefront

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name authToken

// @tag.name storefront
// @tag.description Product views and account favorites
