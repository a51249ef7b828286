package engine_test

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/engine"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/testutils"
	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

type updateCollector struct {
	mu      sync.Mutex
	updates []models.PriceUpdate
}

func (c *updateCollector) sink(u models.PriceUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *updateCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updates)
}

func (c *updateCollector) first() models.PriceUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[0]
}

func (c *updateCollector) last() models.PriceUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates[len(c.updates)-1]
}

func seedOne(price float64) []models.Ticker {
	return []models.Ticker{{ID: "AAPL", Symbol: "AAPL", CurrentPrice: price}}
}

// runTicks starts the engine against an instantly-advancing clock and
// stops it once at least n updates were emitted.
func runTicks(t *testing.T, e *engine.Engine, c *updateCollector, n int) {
	t.Helper()

	e.Start()
	deadline := time.Now().Add(5 * time.Second)
	for c.count() < n {
		if time.Now().After(deadline) {
			e.Stop()
			t.Fatalf("Timed out waiting for %d updates, got %d", n, c.count())
		}
		time.Sleep(time.Millisecond)
	}
	e.Stop()
}

func TestEngine_NeutralRandHoldsBasePrice(t *testing.T) {
	// Float64 of 0.5 makes the uniform [-1,1] draw exactly 0; with the
	// price at base, the reversion term is 0 too, so the price must not
	// move.
	collector := &updateCollector{}
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		&testutils.MockRand{ValFloat: 0.5}, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 10)

	u := collector.first()
	if u.TickerID != "AAPL" {
		t.Errorf("Expected AAPL, got %s", u.TickerID)
	}
	if u.Price != 100.0 {
		t.Errorf("Expected price 100.0, got %f", u.Price)
	}
	if u.Change != 0 || u.ChangePercent != 0 {
		t.Errorf("Expected zero change, got %f / %f", u.Change, u.ChangePercent)
	}
}

func TestEngine_PriceStaysPositiveOverManyTicks(t *testing.T) {
	collector := &updateCollector{}
	rnd := engine.RealRand{Rand: rand.New(rand.NewSource(42))}
	e := engine.NewEngine(zap.NewNop(), time.Millisecond, seedOne(100.0),
		rnd, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 10000)

	if p, ok := e.CurrentPrice("AAPL"); !ok || p <= 0 {
		t.Errorf("Price must stay positive after many ticks, got %f", p)
	}
	if u := collector.last(); u.Price <= 0 {
		t.Errorf("Reported price must stay positive, got %f", u.Price)
	}
}

func TestEngine_SingleTickStaysWithinOnePercent(t *testing.T) {
	collector := &updateCollector{}
	rnd := engine.RealRand{Rand: rand.New(rand.NewSource(7))}
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		rnd, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 1)

	u := collector.first()
	if math.Abs(u.Price-100.0) > 1.0 {
		t.Errorf("First tick moved price outside 100±1: %f", u.Price)
	}
}

func TestEngine_StartStopIdempotent(t *testing.T) {
	collector := &updateCollector{}
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		&testutils.MockRand{ValFloat: 0.5}, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	// Stop before any Start is a no-op, not an error.
	e.Stop()

	e.Start()
	e.Start() // second Start while running must be a no-op
	e.Stop()
	e.Stop() // second Stop must also be a no-op
}

func TestEngine_ResumesFromLastPriceAfterStop(t *testing.T) {
	// Float64 of 1.0 drives the price up every tick.
	collector := &updateCollector{}
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		&testutils.MockRand{ValFloat: 1.0}, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 5)
	afterFirstRun, _ := e.CurrentPrice("AAPL")
	if afterFirstRun <= 100.0 {
		t.Fatalf("Expected price to drift above base, got %f", afterFirstRun)
	}

	runTicks(t, e, collector, collector.count()+5)
	resumed, _ := e.CurrentPrice("AAPL")
	if resumed < afterFirstRun {
		t.Errorf("Restart must resume from last price (%f), got %f", afterFirstRun, resumed)
	}
}

func TestEngine_ResetRestoresBaseWithoutStopping(t *testing.T) {
	collector := &updateCollector{}
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		&testutils.MockRand{ValFloat: 1.0}, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 5)
	if p, _ := e.CurrentPrice("AAPL"); p == 100.0 {
		t.Fatal("Price should have drifted before reset")
	}

	e.Reset()
	if p, _ := e.CurrentPrice("AAPL"); p != 100.0 {
		t.Errorf("Reset must restore base price, got %f", p)
	}
}

func TestEngine_SkipsInstrumentWithoutBasePrice(t *testing.T) {
	seed := []models.Ticker{
		{ID: "AAPL", CurrentPrice: 100.0},
		{ID: "BROKEN", CurrentPrice: 0}, // no usable base price
	}
	collector := &updateCollector{}
	e := engine.NewEngine(zap.NewNop(), time.Second, seed,
		&testutils.MockRand{ValFloat: 0.5}, &testutils.MockClock{CurrentTime: time.Unix(0, 0)}, collector.sink)

	runTicks(t, e, collector, 3)

	collector.mu.Lock()
	defer collector.mu.Unlock()
	for _, u := range collector.updates {
		if u.TickerID == "BROKEN" {
			t.Fatal("Instrument without a base price must be skipped, not emitted")
		}
	}
}

func TestEngine_CurrentPriceUnknownInstrument(t *testing.T) {
	e := engine.NewEngine(zap.NewNop(), time.Second, seedOne(100.0),
		&testutils.MockRand{ValFloat: 0.5}, &testutils.MockClock{}, func(models.PriceUpdate) {})

	if _, ok := e.CurrentPrice("NOPE"); ok {
		t.Error("Expected absent for unknown instrument")
	}
}
