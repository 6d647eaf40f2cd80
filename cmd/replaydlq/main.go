// cmd/replaydlq puts parked event jobs back on their queues.
// Usage: go run ./cmd/replaydlq [-queue jobs:stock_alerts] [-max 100]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ofabiomaran/Loja/internal/config"
	"github.com/ofabiomaran/Loja/internal/infra"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	queue := flag.String("queue", "", "queue to replay (default: all event queues)")
	limit := flag.Int("max", 100, "maximum jobs to replay per queue")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	queues := []string{worker.QueueStockAlerts, worker.QueueRegisterEvents}
	if *queue != "" {
		queues = []string{*queue}
	}
	for _, q := range queues {
		n, err := worker.ReplayDeadLetters(ctx, rdb, q, *limit)
		if err != nil {
			log.Fatal().Err(err).Str("queue", q).Int("replayed", n).Msg("replay failed")
		}
		left, _ := worker.DeadLetterCount(ctx, rdb, q)
		fmt.Printf("%s: %d replayed, %d still parked\n", q, n, left)
	}
}
