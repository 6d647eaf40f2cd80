package worker

// stock_alert_worker.go
// Processes low/negative stock events from QueueStockAlerts.
// Keeps a Redis hash of the products currently under the alert threshold so a
// dashboard can read them without scanning the catalog.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StockAlertsKey is the hash of active stock alerts, keyed by product id.
const StockAlertsKey = "pdv:stock_alerts"

// StockAlertPayload is the job envelope sent to QueueStockAlerts.
type StockAlertPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
	SaleID    string `json:"sale_id,omitempty"`
}

// Negative reports whether more units were sold than were on hand.
func (p StockAlertPayload) Negative() bool { return p.Stock < 0 }

type StockAlertWorker struct {
	rdb *redis.Client
}

func NewStockAlertWorker(rdb *redis.Client) *StockAlertWorker {
	return &StockAlertWorker{rdb: rdb}
}

// Process records the alert, or clears it once stock is back at or above the
// threshold.
func (w *StockAlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("stock_alert_worker: invalid payload: %w", err)
	}
	if payload.ProductID == "" {
		log.Warn().Msg("stock_alert_worker: empty product_id, skipping")
		return nil
	}

	if payload.Stock >= payload.Threshold {
		return w.rdb.HDel(ctx, StockAlertsKey, payload.ProductID).Err()
	}

	if err := w.rdb.HSet(ctx, StockAlertsKey, payload.ProductID, string(raw)).Err(); err != nil {
		return err
	}

	evt := log.Warn()
	if payload.Negative() {
		evt = log.Error()
	}
	evt.Str("product_id", payload.ProductID).
		Str("name", payload.Name).
		Int("stock", payload.Stock).
		Int("threshold", payload.Threshold).
		Str("sale_id", payload.SaleID).
		Msg("stock_alert_worker: product under stock threshold")
	return nil
}

// ActiveStockAlerts returns the alerts currently recorded in Redis.
func ActiveStockAlerts(ctx context.Context, rdb *redis.Client) ([]StockAlertPayload, error) {
	entries, err := rdb.HGetAll(ctx, StockAlertsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]StockAlertPayload, 0, len(entries))
	for _, v := range entries {
		var p StockAlertPayload
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
