package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starburger/dispatch-system/internal/api"
	"github.com/starburger/dispatch-system/internal/core/service"
	mongodb "github.com/starburger/dispatch-system/internal/infrastructure/db/mongo"
	redisdb "github.com/starburger/dispatch-system/internal/infrastructure/db/redis"
	"github.com/starburger/dispatch-system/internal/infrastructure/geocoding"
	"github.com/starburger/dispatch-system/internal/infrastructure/queue"
	"github.com/starburger/dispatch-system/internal/pkg/config"
	"github.com/starburger/dispatch-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	orderRepo := mongodb.NewOrderRepository(db)
	catalogRepo := mongodb.NewCatalogRepository(db)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("order indexes failed")
	}
	if err := catalogRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("catalog indexes failed")
	}

	locationCache := redisdb.NewLocationCache(rdb)
	geocoder := geocoding.NewClient(geocoding.Config{
		BaseURL: cfg.Geocoder.BaseURL,
		APIKey:  cfg.Geocoder.APIKey,
		Timeout: cfg.Geocoder.Timeout,
	})

	// --- Services ---
	locator := service.NewLocator(locationCache, geocoder, log)
	orderService := service.NewOrderService(orderRepo, catalogRepo, locator, log)
	catalogService := service.NewCatalogService(catalogRepo, log)
	dispatchService := service.NewDispatchService(
		orderRepo, catalogRepo, locator, cfg.Dispatch.GeocodeConcurrency, log)

	runner := queue.NewRunner(dispatchService, log)
	runner.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Orders:  orderService,
		Catalog: catalogService,
		Runner:  runner,
		Mongo:   db,
		Redis:   rdb,
		Logger:  log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
		os.Exit(1)
	}
}
