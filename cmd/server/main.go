package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ofabiomaran/Loja/internal/config"
	"github.com/ofabiomaran/Loja/internal/infra"
	"github.com/ofabiomaran/Loja/internal/middleware"
	"github.com/ofabiomaran/Loja/internal/model"
	"github.com/ofabiomaran/Loja/internal/repository"
	"github.com/ofabiomaran/Loja/internal/router"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		rdb *redis.Client
		db  *gorm.DB
	)
	if cfg.NeedsRedis() {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	}

	var persister repository.Persister
	switch cfg.StorageDriver {
	case config.StorageFile:
		persister = repository.NewFilePersister(cfg.StateFile)
	case config.StorageRedis:
		persister = repository.NewRedisPersister(rdb, cfg.RedisStateKey)
	case config.StoragePostgres:
		db, err = infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		persister, err = repository.NewPostgresPersister(db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to migrate postgres schema")
		}
	}

	store, err := repository.NewStore(ctx, persister)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to load state")
	}

	// Async events: stock alerts and register audit. The dispatcher stays nil
	// when events are disabled and the services only log.
	var (
		dispatcher *worker.Dispatcher
		workers    *sync.WaitGroup
	)
	if cfg.EventsEnabled {
		dispatcher = worker.NewDispatcher(rdb, nil)
		workers = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewHandlers(rdb))
		worker.StartStockSweep(ctx, worker.StockSweepConfig{
			Products:  catalog(store),
			RDB:       rdb,
			Threshold: cfg.LowStockThreshold,
		})
	}

	limiter := middleware.NewRateLimiter(1000, time.Minute) // 1000 req/min per IP
	limiter.StartPurge(ctx)

	r := router.New(cfg, router.Deps{
		Store:       store,
		Dispatcher:  dispatcher,
		DB:          db,
		Redis:       rdb,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().
			Str("storage", cfg.StorageDriver).
			Bool("events", cfg.EventsEnabled).
			Msgf("PDV backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	log.Info().Msg("server exited")
}

// catalog hands the stock sweep a copy of the current products.
func catalog(store *repository.Store) func() []model.Product {
	return func() []model.Product {
		var out []model.Product
		store.Read(func(st *repository.State) {
			out = make([]model.Product, len(st.Products))
			copy(out, st.Products)
		})
		return out
	}
}
