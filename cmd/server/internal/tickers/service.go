package tickers

import (
	"sync"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/cache"
	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

// HistorySource produces a backfill series on a cache miss.
type HistorySource interface {
	Generate(tickerID string, hours float64) []models.HistoricalPoint
}

// Service owns the instrument table. The price engine is the only
// writer (through UpdatePrice); everything else reads snapshots. It
// also fronts the cache/generator pipeline for historical queries.
type Service struct {
	logger  *zap.Logger
	cache   *cache.Cache
	history HistorySource

	mu      sync.RWMutex
	order   []string
	tickers map[string]*models.Ticker
}

func NewService(logger *zap.Logger, seed []models.Ticker, c *cache.Cache, history HistorySource) *Service {
	s := &Service{
		logger:  logger,
		cache:   c,
		history: history,
		tickers: make(map[string]*models.Ticker, len(seed)),
	}
	for _, t := range seed {
		t := t
		s.order = append(s.order, t.ID)
		s.tickers[t.ID] = &t
	}
	return s
}

// All returns snapshots of every ticker in seed order.
func (s *Service) All() []models.Ticker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ticker, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tickers[id])
	}
	return out
}

// Get returns a snapshot of one ticker.
func (s *Service) Get(id string) (models.Ticker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickers[id]
	if !ok {
		return models.Ticker{}, false
	}
	return *t, true
}

func (s *Service) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tickers[id]
	return ok
}

// UpdatePrice applies one tick to the table. Updates for unknown ids
// are dropped; that only happens against partially-initialized state.
func (s *Service) UpdatePrice(u models.PriceUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickers[u.TickerID]
	if !ok {
		return
	}
	t.CurrentPrice = u.Price
	t.Change = u.Change
	t.ChangePercent = u.ChangePercent
	t.LastUpdate = u.Timestamp
}

// History returns the series for (id, hours), serving from cache when a
// live entry exists and generating + caching otherwise. The second call
// within the TTL returns the identical cached series. Unknown ids
// report false and generate nothing.
func (s *Service) History(id string, hours float64) ([]models.HistoricalPoint, bool) {
	if !s.Exists(id) {
		return nil, false
	}

	if points, ok := s.cache.Get(id, hours); ok {
		s.logger.Debug("History cache hit", zap.String("ticker", id), zap.Float64("hours", hours))
		return points, true
	}

	s.logger.Debug("History cache miss", zap.String("ticker", id), zap.Float64("hours", hours))
	points := s.history.Generate(id, hours)
	if len(points) > 0 {
		s.cache.Set(id, hours, points)
	}
	return points, true
}

// CacheStats exposes the cache counters read-only.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
