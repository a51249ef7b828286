package engine

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

const (
	// 0.2% typical step per tick
	volatility = 0.002
	// Empirical 80/20 split between the pure random term and the
	// mean-reversion pull toward base price. Keeps long runs bounded
	// near base without visibly damping the walk.
	randomWeight    = 0.8
	reversionWeight = 0.2
)

// Sink receives one PriceUpdate per instrument per tick, synchronously
// within the tick. It must not block.
type Sink func(models.PriceUpdate)

// Engine owns per-instrument price state and advances it on a fixed
// interval. It is the sole mutator of current prices; everything else
// reads snapshots through the ticker service.
type Engine struct {
	logger   *zap.Logger
	interval time.Duration
	clock    Clock
	rand     Rand
	sink     Sink

	mu      sync.Mutex
	order   []string // seed order, drives deterministic emit order
	base    map[string]float64
	current map[string]float64 // unrounded, to avoid compounding rounding error
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewEngine(
	logger *zap.Logger,
	interval time.Duration,
	seed []models.Ticker,
	rnd Rand,
	clock Clock,
	sink Sink,
) *Engine {
	e := &Engine{
		logger:   logger,
		interval: interval,
		clock:    clock,
		rand:     rnd,
		sink:     sink,
		base:     make(map[string]float64),
		current:  make(map[string]float64),
	}
	for _, t := range seed {
		e.order = append(e.order, t.ID)
		e.base[t.ID] = t.CurrentPrice
		e.current[t.ID] = t.CurrentPrice
	}
	return e
}

// Start begins the tick loop. Calling Start while already running is a
// no-op; starting after Stop resumes from the last prices.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})

	e.logger.Info("Price engine started", zap.Duration("interval", e.interval), zap.Int("instruments", len(e.order)))
	go e.run(e.stop, e.done)
}

// Stop halts the tick loop and waits for any in-flight tick to finish.
// Stopping an engine that is not running is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	done := e.done
	e.mu.Unlock()

	<-done
	e.logger.Info("Price engine stopped")
}

func (e *Engine) run(stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		e.clock.Sleep(e.interval)

		// Re-check after the sleep so a tick either completes fully or
		// does not start once Stop has been requested.
		select {
		case <-stop:
			return
		default:
		}

		e.tick()
	}
}

// tick advances every instrument once, in seed order, emitting each
// update into the sink before moving to the next instrument. The whole
// cycle holds the price lock; the sink pipeline takes its own locks and
// nothing in it calls back into the engine.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	for _, id := range e.order {
		current, okCur := e.current[id]
		base, okBase := e.base[id]
		if !okCur || !okBase || base == 0 {
			// Partially-initialized instrument; skip, not an error.
			continue
		}

		u := e.rand.Float64()*2 - 1
		reversion := -(current - base) / base
		step := (randomWeight*u + reversionWeight*reversion) * volatility
		newPrice := current * (1 + step)

		e.current[id] = newPrice

		change := newPrice - base
		e.sink(models.PriceUpdate{
			TickerID:      id,
			Price:         round2(newPrice),
			Change:        round2(change),
			ChangePercent: round2(change / base * 100),
			Timestamp:     now,
		})
	}
}

// CurrentPrice returns the unrounded live price for an instrument.
func (e *Engine) CurrentPrice(tickerID string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.current[tickerID]
	return p, ok
}

// Reset restores every current price to its base price. The tick loop
// keeps running; the next tick walks from base again.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, base := range e.base {
		e.current[id] = base
	}
	e.logger.Info("Price engine reset to base prices")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
