package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that keep failing, or that no handler understands, are parked on a
// per-queue dead-letter list until someone replays them.
const deadLetterPrefix = "dlq:"

func deadLetterKey(queue string) string { return deadLetterPrefix + queue }

// DeadLetter is a parked job plus why and when it was given up on.
type DeadLetter struct {
	Job
	Queue    string    `json:"queue"`
	Reason   string    `json:"reason"`
	ParkedAt time.Time `json:"parked_at"`
}

// park moves job to queue's dead-letter list. Failures are only logged: the
// job has already left the main queue.
func park(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	letter := DeadLetter{Job: job, Queue: queue, Reason: reason, ParkedAt: time.Now().UTC()}
	data, err := json.Marshal(letter)
	if err == nil {
		err = rdb.LPush(ctx, deadLetterKey(queue), data).Err()
	}
	ev := log.Warn()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("job parked")
}

// DeadLetterCount reports how many jobs are parked for queue.
func DeadLetterCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, deadLetterKey(queue)).Result()
}

// ReplayDeadLetters puts up to max parked jobs back on queue, oldest first,
// with their attempt counter reset. Undecodable entries are discarded.
func ReplayDeadLetters(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	key := deadLetterKey(queue)
	n := 0
	for n < max {
		raw, err := rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		var letter DeadLetter
		if err := json.Unmarshal([]byte(raw), &letter); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("discarding undecodable dead letter")
			continue
		}
		if err := pushJob(ctx, rdb, queue, Job{Type: letter.Type, Payload: letter.Payload}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
