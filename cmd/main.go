package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/events"
	httpapi "backoffice/internal/http"
	"backoffice/internal/repository"
	"backoffice/internal/service"

	_ "backoffice/docs"
)

// @title Back-office API
// @version 1.0
// @description Catalog, inventory and order management for the dashboard.
// @BasePath /
func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)
	log.Info().Str("appName", cfg.AppName).Str("env", cfg.AppEnv).Str("store", cfg.StoreDriver).Msg("Application starting")

	repos, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer repos.close()

	products := repos.products
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, product cache disabled")
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			products = repository.NewCachedProducts(products, repository.NewRedisProductCache(rdb, cfg.CacheTTL))
			log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Product cache enabled")
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmq, err := events.DialRabbitMQ(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		} else {
			defer rmq.Close()
			publisher = rmq
		}
	}

	productsSvc := service.NewProductService(products, publisher)
	inventorySvc := service.NewInventoryService(repos.inventory, publisher)
	ordersSvc := service.NewOrderService(repos.orders, publisher, domain.NewOrderID)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := httpapi.NewServer(productsSvc, inventorySvc, ordersSvc, httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		Store:          repos.pinger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func setupLogger(cfg config.Config) {
	if !cfg.Development() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", cfg.AppName).Logger()
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
