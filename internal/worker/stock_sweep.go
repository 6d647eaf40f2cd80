package worker

// stock_sweep.go
// Background goroutine that periodically rebuilds the stock alerts hash from
// the catalog, so alerts for products restocked or deleted through the API
// disappear even though no sale touched them.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ofabiomaran/Loja/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultSweepInterval = time.Minute

// StockSweepConfig holds all dependencies for the sweep goroutine.
type StockSweepConfig struct {
	// Products returns the current catalog.
	Products  func() []model.Product
	RDB       *redis.Client
	Threshold int
	Interval  time.Duration
}

// StartStockSweep runs one sweep immediately and then one per interval until
// ctx is cancelled.
func StartStockSweep(ctx context.Context, cfg StockSweepConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("stock_sweep: started")
		sweepOnce(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_sweep: shutting down")
				return
			case <-ticker.C:
				sweepOnce(ctx, cfg)
			}
		}
	}()
}

func sweepOnce(ctx context.Context, cfg StockSweepConfig) {
	if err := SweepStockAlerts(ctx, cfg.RDB, cfg.Products(), cfg.Threshold); err != nil {
		log.Error().Err(err).Msg("stock_sweep: failed to rebuild alerts")
	}
}

// SweepStockAlerts replaces the alerts hash with the products whose stock is
// under threshold.
func SweepStockAlerts(ctx context.Context, rdb *redis.Client, products []model.Product, threshold int) error {
	fields := make(map[string]interface{})
	for _, p := range products {
		if p.Stock >= threshold {
			continue
		}
		data, err := json.Marshal(StockAlertPayload{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: threshold,
		})
		if err != nil {
			return err
		}
		fields[p.ID.String()] = string(data)
	}

	pipe := rdb.TxPipeline()
	pipe.Del(ctx, StockAlertsKey)
	if len(fields) > 0 {
		pipe.HSet(ctx, StockAlertsKey, fields)
	}
	_, err := pipe.Exec(ctx)
	if err == nil && len(fields) > 0 {
		log.Debug().Int("count", len(fields)).Msg("stock_sweep: alerts rebuilt")
	}
	return err
}
