package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"google.golang.org/grpc"

	_ "github.com/tair/storefront/docs/favorites"
	"github.com/tair/storefront/internal/favorites"
	grpcDelivery "github.com/tair/storefront/internal/favorites/delivery/grpc"
	httpDelivery "github.com/tair/storefront/internal/favorites/delivery/http"
	"github.com/tair/storefront/internal/favorites/domain"
	"github.com/tair/storefront/internal/favorites/repository"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/database"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/tracing"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "favorites-service")
	environment := getEnv("ENVIRONMENT", "development")
	logger.Init(serviceName, environment == "development")

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", environment).
		Str("log_level", logLevel).
		Msg("Starting favorites service")

	tp, err := tracing.InitTracer(serviceName, "1.0.0", os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "favoritesdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	sqlDB, err := database.NewPostgresConnection(context.Background(), dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, repository.Migrations, repository.MigrationsDir); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	db, err := database.NewGormConnection(sqlDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize gorm")
	}

	resolver, err := auth.NewJWTResolver(getEnv("JWT_SECRET", "dev-secret-change-me"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize session resolver")
	}

	var events domain.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, favorite events disabled")
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	handler, err := favorites.InitializeHTTPHandler(db, resolver, events, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grpcServer, healthReporter := grpcDelivery.NewServer(
		grpcDelivery.NewMetrics(prometheus.DefaultRegisterer),
		sqlDB.PingContext,
		10*time.Second,
	)
	go healthReporter.Run(ctx)
	go startGRPCServer(grpcServer, getEnv("GRPC_PORT", "9095"))

	router := mux.NewRouter()
	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(newRateLimiter(resolver))
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)
	handler.RegisterRoutes(router)
	httpDelivery.RegisterHealthCheck(router, sqlDB)
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Handle("/metrics", promhttp.Handler())

	httpPort := getEnv("HTTP_PORT", "8085")
	server := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           httpDelivery.SetupCORS(middlewareConfig, router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()
}

// newRateLimiter returns nil when Redis is not configured or not reachable
func newRateLimiter(resolver auth.Resolver) *httpDelivery.RateLimiter {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", addr).Msg("Redis unavailable, rate limiting disabled")
		client.Close()
		return nil
	}

	limit, err := strconv.Atoi(getEnv("FAVORITES_RATE_LIMIT", "60"))
	if err != nil || limit <= 0 {
		limit = 60
	}

	logger.Logger.Info().
		Str("addr", addr).
		Int("limit_per_minute", limit).
		Msg("Favorite mutation rate limiting enabled")
	return httpDelivery.NewRateLimiter(client, resolver, limit, time.Minute)
}

func startGRPCServer(server *grpc.Server, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen for gRPC")
	}

	logger.Logger.Info().Str("port", port).Msg("gRPC health server started")
	if err := server.Serve(lis); err != nil {
		logger.Logger.Error().Err(err).Msg("gRPC server stopped")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
