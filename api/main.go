package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	httpapi "tablebooker/api/internal/api/http"
	"tablebooker/api/internal/auth"
	"tablebooker/api/internal/service"
	"tablebooker/api/internal/storage"
	"tablebooker/config"
	"tablebooker/logging"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	cfg.Log.Service = "api"
	logger := logging.New(cfg.Log)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg.Database)
	defer db.Close()

	repository := storage.NewPostgresRepository(db)
	if err := repository.EnsureSchema(ctx, logger); err != nil {
		logger.WithError(err).Fatal("failed to ensure schema")
	}

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()
	cache := storage.NewRedisCache(rdb)

	writer := config.NewKafkaWriter(cfg.Kafka)
	defer writer.Close()
	publisher := storage.NewKafkaPublisher(writer)

	tasks := &service.Background{}
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithDispatcher(tasks.Go),
		service.WithCacheTTL(service.CacheTTL{
			Availability: cfg.Cache.AvailabilityTTL,
			Bookings:     cfg.Cache.BookingsTTL,
			Restaurant:   cfg.Cache.RestaurantTTL,
		}),
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: cfg.Server.PublicBaseURL}),
	}

	services := httpapi.Services{
		Restaurants:  service.NewRestaurantService(repository, cache, opts...),
		Menu:         service.NewMenuService(repository, repository),
		Availability: service.NewAvailabilityService(repository, repository, cache, opts...),
		Bookings:     service.NewBookingService(repository, repository, cache, publisher, opts...),
		Reviews:      service.NewReviewService(repository, repository, publisher, opts...),
		Favorites:    service.NewFavoriteService(repository, repository),
		Stats:        service.NewStatsService(repository, repository, repository, cache, opts...),
	}

	handler := httpapi.NewHandler(services, auth.NewJWTValidator(cfg.Auth.JWTSecret),
		httpapi.WithLogger(logger),
		httpapi.WithMetrics(httpapi.NewMetrics()),
		httpapi.WithUploadDir(cfg.Server.UploadDir),
	)
	router := httpapi.NewRouter(handler, cfg.Server.FrontendOrigin)

	addr := ":" + cfg.Server.Port
	logger.WithField("addr", addr).Info("API service starting")
	if err := httpapi.StartServer(ctx, addr, router, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}

	// Publishes still in flight finish before the deferred writer.Close.
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := tasks.Wait(drainCtx); err != nil {
		logger.WithError(err).Warn("pending events dropped at shutdown")
	}
	logger.Info("API service stopped")
}
