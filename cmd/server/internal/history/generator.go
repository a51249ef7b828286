package history

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

const (
	volatility = 0.002
	// Reversion weight for backfill series. Stronger than the live
	// engine's pull so multi-day windows stay anchored near base.
	reversionWeight = 0.05

	marketOpenHour  = 9
	marketCloseHour = 16

	marketHoursVolumeMultiplier = 1.5
	offHoursVolumeMultiplier    = 0.7
)

// for deterministic testing
type Clock interface {
	Now() time.Time
}

type Rand interface {
	Float64() float64
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RealRand uses the locked top-level source: Generate runs on request
// goroutines that may overlap.
type RealRand struct{}

func (RealRand) Float64() float64 { return rand.Float64() }

// Generator produces synthetic historical series on demand. It is pure
// given its random source and clock: one call, one chronologically
// ordered series walking from the instrument's base price.
type Generator struct {
	logger     *zap.Logger
	clock      Clock
	rand       Rand
	baseVolume int64
	basePrices map[string]float64
}

func NewGenerator(logger *zap.Logger, seed []models.Ticker, baseVolume int64, rnd Rand, clock Clock) *Generator {
	base := make(map[string]float64, len(seed))
	for _, t := range seed {
		base[t.ID] = t.CurrentPrice
	}
	return &Generator{
		logger:     logger,
		clock:      clock,
		rand:       rnd,
		baseVolume: baseVolume,
		basePrices: base,
	}
}

// Generate returns the backfill series for (tickerID, hours), sampled
// from now-hours back to now. Unknown tickers yield an empty series,
// which callers must not cache.
func (g *Generator) Generate(tickerID string, hours float64) []models.HistoricalPoint {
	base, ok := g.basePrices[tickerID]
	if !ok {
		return nil
	}

	now := g.clock.Now()
	start := now.Add(-time.Duration(hours * float64(time.Hour)))
	interval := sampleInterval(hours)

	var points []models.HistoricalPoint
	price := base

	for ts := start; !ts.After(now); ts = ts.Add(interval) {
		price = g.nextPrice(price, base)
		points = append(points, models.HistoricalPoint{
			Timestamp: ts,
			Price:     math.Round(price*100) / 100,
			Volume:    g.volumeAt(ts),
		})
	}

	g.logger.Debug("Generated historical series",
		zap.String("ticker", tickerID),
		zap.Float64("hours", hours),
		zap.Int("points", len(points)))

	return points
}

// nextPrice applies one random-walk step with mean reversion toward the
// base price.
func (g *Generator) nextPrice(current, base float64) float64 {
	randomChange := (g.rand.Float64() - 0.5) * 2 * volatility
	meanReversion := ((base - current) / base) * reversionWeight
	return current * (1 + randomChange + meanReversion)
}

// volumeAt randomizes volume within a band whose midpoint is higher
// during simulated market hours, modeling intraday liquidity.
func (g *Generator) volumeAt(ts time.Time) int64 {
	hour := ts.Hour()
	multiplier := offHoursVolumeMultiplier
	if hour >= marketOpenHour && hour <= marketCloseHour {
		multiplier = marketHoursVolumeMultiplier
	}
	band := g.rand.Float64()*float64(g.baseVolume) + float64(g.baseVolume)
	return int64(math.Floor(band * multiplier))
}

// sampleInterval scales with window length to bound point count.
func sampleInterval(hours float64) time.Duration {
	minutes := hours * 60

	switch {
	case minutes <= 11:
		return time.Second
	case hours <= 1:
		return 20 * time.Second
	case hours <= 24:
		return 5 * time.Minute
	default:
		return 30 * time.Minute
	}
}
