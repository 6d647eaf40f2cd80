package worker

// register_audit_worker.go
// Processes register-closing events from QueueRegisterEvents and appends them
// to a capped audit list.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	RegisterAuditKey = "pdv:register_audit"
	registerAuditMax = 500
)

// RegisterClosedPayload is the job envelope sent to QueueRegisterEvents.
type RegisterClosedPayload struct {
	RegisterID           string          `json:"register_id"`
	OpeningBalance       decimal.Decimal `json:"opening_balance"`
	ExpectedBalance      decimal.Decimal `json:"expected_balance"`
	ActualClosingBalance decimal.Decimal `json:"actual_closing_balance"`
	CashShortage         decimal.Decimal `json:"cash_shortage"`
	ShortageClass        string          `json:"shortage_class"`
	SalesTotal           decimal.Decimal `json:"sales_total"`
	SaleCount            int             `json:"sale_count"`
	ClosedAt             string          `json:"closed_at"` // RFC 3339
}

type RegisterAuditWorker struct {
	rdb *redis.Client
}

func NewRegisterAuditWorker(rdb *redis.Client) *RegisterAuditWorker {
	return &RegisterAuditWorker{rdb: rdb}
}

func (w *RegisterAuditWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RegisterClosedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("register_audit_worker: invalid payload: %w", err)
	}

	pipe := w.rdb.TxPipeline()
	pipe.LPush(ctx, RegisterAuditKey, string(raw))
	pipe.LTrim(ctx, RegisterAuditKey, 0, registerAuditMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	evt := log.Info()
	switch payload.ShortageClass {
	case "warning":
		evt = log.Warn()
	case "critical":
		evt = log.Error()
	}
	evt.Str("register_id", payload.RegisterID).
		Str("expected", payload.ExpectedBalance.String()).
		Str("actual", payload.ActualClosingBalance.String()).
		Str("shortage", payload.CashShortage.String()).
		Str("class", payload.ShortageClass).
		Int("sales", payload.SaleCount).
		Msg("register_audit_worker: register closed")
	return nil
}

// RegisterAuditTrail returns up to limit audit entries, newest first.
func RegisterAuditTrail(ctx context.Context, rdb *redis.Client, limit int64) ([]RegisterClosedPayload, error) {
	raw, err := rdb.LRange(ctx, RegisterAuditKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]RegisterClosedPayload, 0, len(raw))
	for _, v := range raw {
		var p RegisterClosedPayload
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
