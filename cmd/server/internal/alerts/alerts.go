package alerts

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

// Direction says which way the price must cross the threshold.
type Direction string

const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionAbove || d == DirectionBelow
}

// Subscription is one live price threshold owned by a subscriber.
// Its natural key is (subscriber, ticker, direction, price); registering
// an identical subscription overwrites rather than duplicates.
type Subscription struct {
	SubscriberID string
	TickerID     string
	Direction    Direction
	Price        float64
}

func (s Subscription) key() string {
	return fmt.Sprintf("%s|%s|%s", s.SubscriberID, s.Direction, formatPrice(s.Price))
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.10g", p)
}

// Triggered pairs a fired alert with the subscriber that owns it.
type Triggered struct {
	SubscriberID string
	Alert        models.AlertTriggered
}

// Engine holds live threshold subscriptions keyed by instrument and
// fires each at most once. A subscription only ever goes
// Active -> Fired (removed) or Active -> Cancelled (removed).
type Engine struct {
	logger *zap.Logger

	mu       sync.Mutex
	byTicker map[string]map[string]Subscription
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		logger:   logger,
		byTicker: make(map[string]map[string]Subscription),
	}
}

// Register upserts a subscription under its natural key.
func (e *Engine) Register(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.byTicker[sub.TickerID] == nil {
		e.byTicker[sub.TickerID] = make(map[string]Subscription)
	}
	e.byTicker[sub.TickerID][sub.key()] = sub

	e.logger.Debug("Alert registered",
		zap.String("subscriber", sub.SubscriberID),
		zap.String("ticker", sub.TickerID),
		zap.String("direction", string(sub.Direction)),
		zap.Float64("price", sub.Price))
}

// Cancel removes one subscription by its natural key. Cancelling a
// subscription that no longer exists is a no-op.
func (e *Engine) Cancel(sub Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	alertMap, ok := e.byTicker[sub.TickerID]
	if !ok {
		return
	}
	delete(alertMap, sub.key())
	if len(alertMap) == 0 {
		delete(e.byTicker, sub.TickerID)
	}
}

// CancelAll removes every subscription owned by a subscriber. Used on
// disconnect.
func (e *Engine) CancelAll(subscriberID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for tickerID, alertMap := range e.byTicker {
		for key, sub := range alertMap {
			if sub.SubscriberID == subscriberID {
				delete(alertMap, key)
			}
		}
		if len(alertMap) == 0 {
			delete(e.byTicker, tickerID)
		}
	}
}

// Evaluate checks every active subscription on the instrument against
// the price. Strict inequality: equality never fires. Fired
// subscriptions are removed within the call, so each fires at most once;
// all that qualify fire in the same batch.
func (e *Engine) Evaluate(tickerID string, price float64) []Triggered {
	e.mu.Lock()
	defer e.mu.Unlock()

	alertMap, ok := e.byTicker[tickerID]
	if !ok {
		return nil
	}

	var triggered []Triggered
	for key, sub := range alertMap {
		isAbove := sub.Direction == DirectionAbove && price > sub.Price
		isBelow := sub.Direction == DirectionBelow && price < sub.Price
		if !isAbove && !isBelow {
			continue
		}

		triggered = append(triggered, Triggered{
			SubscriberID: sub.SubscriberID,
			Alert: models.AlertTriggered{
				TickerID:   tickerID,
				Price:      price,
				AlertPrice: sub.Price,
				Type:       string(sub.Direction),
			},
		})
		delete(alertMap, key)

		e.logger.Debug("Alert triggered",
			zap.String("subscriber", sub.SubscriberID),
			zap.String("ticker", tickerID),
			zap.Float64("price", price),
			zap.Float64("alert_price", sub.Price))
	}

	if len(alertMap) == 0 {
		delete(e.byTicker, tickerID)
	}
	return triggered
}
