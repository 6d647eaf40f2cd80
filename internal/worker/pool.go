package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ofabiomaran/Loja/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueStockAlerts    = "jobs:stock_alerts"
	QueueRegisterEvents = "jobs:register_events"

	JobStockAlert     = "stock_alert"
	JobRegisterClosed = "register_closed"

	// MaxJobAttempts is how many times a failing job runs before it is moved
	// to the dead letter queue.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
//
// Enqueueing goes through a circuit breaker: when Redis is down, sales and
// register closes keep working and the events are dropped with a log line.
type Dispatcher struct {
	rdb *redis.Client
	cb  *infra.Breaker
}

func NewDispatcher(rdb *redis.Client, cb *infra.Breaker) *Dispatcher {
	if cb == nil {
		cb = infra.NewBreaker("event-queue", infra.BreakerConfig{})
	}
	return &Dispatcher{rdb: rdb, cb: cb}
}

// EnqueueStockAlert pushes a low/negative stock event.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, payload StockAlertPayload) error {
	return d.enqueue(ctx, QueueStockAlerts, JobStockAlert, payload)
}

// EnqueueRegisterClosed pushes a register-closing audit event.
func (d *Dispatcher) EnqueueRegisterClosed(ctx context.Context, payload RegisterClosedPayload) error {
	return d.enqueue(ctx, QueueRegisterEvents, JobRegisterClosed, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.cb.Do(func() error {
		return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
	})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// HandlerFunc processes the payload of one job. A returned error schedules a
// retry, up to MaxJobAttempts.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Handlers maps a job type to its processor.
type Handlers map[string]HandlerFunc

// NewHandlers wires the default processors for every job type.
func NewHandlers(rdb *redis.Client) Handlers {
	alerts := NewStockAlertWorker(rdb)
	audit := NewRegisterAuditWorker(rdb)
	return Handlers{
		JobStockAlert:     alerts.Process,
		JobRegisterClosed: audit.Process,
	}
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, so idle workers cost no CPU. The returned
// WaitGroup is done once every worker has observed ctx cancellation.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, h Handlers) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, h, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return wg
}

func runWorker(ctx context.Context, rdb *redis.Client, h Handlers, id int) {
	queues := []string{QueueStockAlerts, QueueRegisterEvents}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s, then loops to re-check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, h Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		park(ctx, rdb, queue, Job{Type: "unknown", Payload: quoted}, "malformed envelope")
		return
	}

	handle, ok := h[job.Type]
	if !ok {
		park(ctx, rdb, queue, job, "no handler for job type")
		return
	}

	job.Attempts++
	if err := handle(ctx, job.Payload); err != nil {
		if job.Attempts >= MaxJobAttempts {
			park(ctx, rdb, queue, job, fmt.Sprintf("max attempts (%d) exceeded: %s", MaxJobAttempts, err))
			return
		}
		log.Warn().
			Err(err).
			Str("queue", queue).
			Str("type", job.Type).
			Int("attempts", job.Attempts).
			Msg("job failed, re-queued")
		if err := pushJob(ctx, rdb, queue, job); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("failed to re-queue job")
		}
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}
