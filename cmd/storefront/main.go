package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/storefront/docs/storefront"
	"github.com/tair/storefront/internal/storefront/aggregate"
	"github.com/tair/storefront/internal/storefront/client"
	"github.com/tair/storefront/internal/storefront/config"
	httpDelivery "github.com/tair/storefront/internal/storefront/delivery/http"
	"github.com/tair/storefront/internal/storefront/toggle"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/circuitbreaker"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/tracing"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront")
	logger.Init(serviceName, cfg.Environment == "development")
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Msg("Starting storefront")

	tp, err := tracing.InitTracer(serviceName, "1.0.0", os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	resolver, err := auth.NewJWTResolver(cfg.JWTSecret)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize session resolver")
	}

	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reg := prometheus.DefaultRegisterer
	breakerMetrics := client.NewBreakerMetrics(reg)
	breakerSettings := circuitbreaker.Settings{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}

	catalog := client.NewCatalogClient(
		cfg.Catalog.BaseURL,
		client.NewHTTPClient(cfg.Catalog.Timeout),
		breakerMetrics.NewBreaker(cfg.Catalog.Name, breakerSettings),
		client.NewSnapshotCache(redisClient, cfg.CatalogCacheTTL),
	)
	reviews := client.NewReviewClient(
		cfg.Reviews.BaseURL,
		client.NewHTTPClient(cfg.Reviews.Timeout),
		breakerMetrics.NewBreaker(cfg.Reviews.Name, breakerSettings),
	)
	favoritesHTTP := client.NewHTTPClient(cfg.Favorites.Timeout)
	favorites := client.NewFavoritesClient(cfg.Favorites.BaseURL, favoritesHTTP)

	reader := aggregate.NewReader(catalog, reviews, favorites, resolver, cfg.AuxFetchTimeout, cfg.ReviewSampleSize, reg)
	account := aggregate.NewAccountFavorites(favorites, catalog, 8)

	handler := httpDelivery.NewHandler(reader, account, resolver, toggle.NewRegistry(),
		func(credential string) toggle.FavoritesAPI { return favorites.ForViewer(credential) })
	proxy := httpDelivery.NewFavoritesProxy(cfg.Favorites.BaseURL, favoritesHTTP)
	health := httpDelivery.NewHealthChecker(
		cfg.Services(),
		[]*circuitbreaker.Breaker{catalog.Breaker(), reviews.Breaker()},
		client.NewHTTPClient(2*time.Second),
	)

	app := fiber.New(fiber.Config{
		AppName:      "Storefront",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: httpDelivery.ErrorHandler,
	})

	setupMiddleware(app, serviceName, reg)

	health.RegisterRoutes(app)
	httpDelivery.RegisterRoutes(app, handler, proxy)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", adaptor.HTTPHandlerFunc(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	go func() {
		addr := ":" + cfg.Port
		logger.Logger.Info().
			Str("addr", addr).
			Str("catalog", cfg.Catalog.BaseURL).
			Str("reviews", cfg.Reviews.BaseURL).
			Str("favorites", cfg.Favorites.BaseURL).
			Dur("aux_fetch_timeout", cfg.AuxFetchTimeout).
			Msg("Storefront listening")

		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Logger.Info().Msg("Shutting down storefront...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Logger.Info().Msg("Storefront stopped")
}

func setupMiddleware(app *fiber.App, serviceName string, reg prometheus.Registerer) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New())

	// Tracing before logging so log lines carry the trace id.
	app.Use(httpDelivery.TracingMiddleware(serviceName))
	app.Use(httpDelivery.StructuredLoggingMiddleware())
	app.Use(httpDelivery.NewMetrics(reg).Middleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		AllowMethods:     "GET,POST,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id, X-Trace-Id",
		MaxAge:           86400,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// connectRedis returns nil when Redis is unreachable; the catalog cache is then skipped
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - catalog caching disabled")
		redisClient.Close()
		return nil
	}

	logger.Logger.Info().
		Str("redis_addr", cfg.RedisAddr).
		Dur("ttl", cfg.CatalogCacheTTL).
		Msg("Catalog snapshot caching enabled")
	return redisClient
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
