package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BreakerState is the position of a Breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerProbing
)

var breakerStateNames = map[BreakerState]string{
	BreakerClosed:  "closed",
	BreakerOpen:    "open",
	BreakerProbing: "half-open",
}

func (s BreakerState) String() string {
	if name, ok := breakerStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ErrBreakerOpen is returned by Breaker.Do without calling through.
var ErrBreakerOpen = errors.New("breaker open: dependency unavailable")

// BreakerConfig tunes a Breaker. Zero fields fall back to the defaults:
// trip after 3 consecutive failures, close after 1 good probe, cool down 30s.
type BreakerConfig struct {
	TripAfter  int
	CloseAfter int
	Cooldown   time.Duration
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.TripAfter <= 0 {
		c.TripAfter = 3
	}
	if c.CloseAfter <= 0 {
		c.CloseAfter = 1
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	return c
}

// Breaker guards calls to an optional dependency such as the event queue.
// Once tripped it rejects calls until Cooldown has passed, then lets calls
// through as probes until CloseAfter of them succeed in a row.
type Breaker struct {
	name string
	cfg  BreakerConfig
	now  func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	probesOK  int
	trippedAt time.Time
}

// NewBreaker returns a closed breaker. name is only used in log lines.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	return &Breaker{name: name, cfg: cfg.withDefaults(), now: time.Now}
}

// State reports the current position, moving an expired open breaker to
// half-open.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refresh()
}

// caller holds mu
func (b *Breaker) refresh() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.trippedAt) >= b.cfg.Cooldown {
		b.moveTo(BreakerProbing)
	}
	return b.state
}

// Do calls fn unless the breaker is open, and records the outcome.
func (b *Breaker) Do(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrBreakerOpen
	}
	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(err)
	return err
}

// caller holds mu
func (b *Breaker) record(err error) {
	if err == nil {
		b.failures = 0
		if b.state == BreakerProbing {
			b.probesOK++
			if b.probesOK >= b.cfg.CloseAfter {
				b.moveTo(BreakerClosed)
			}
		}
		return
	}

	b.failures++
	if b.state == BreakerProbing || b.failures >= b.cfg.TripAfter {
		b.trippedAt = b.now()
		b.moveTo(BreakerOpen)
	}
}

// caller holds mu
func (b *Breaker) moveTo(to BreakerState) {
	if b.state == to {
		return
	}
	log.Warn().
		Str("breaker", b.name).
		Stringer("from", b.state).
		Stringer("to", to).
		Msg("breaker state changed")
	b.state = to
	b.failures = 0
	b.probesOK = 0
}
