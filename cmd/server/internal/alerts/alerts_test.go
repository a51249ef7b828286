package alerts_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/alerts"
)

func sub(subscriber, ticker string, direction alerts.Direction, price float64) alerts.Subscription {
	return alerts.Subscription{
		SubscriberID: subscriber,
		TickerID:     ticker,
		Direction:    direction,
		Price:        price,
	}
}

func TestEngine_AboveFiresExactlyOnce(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))

	if fired := e.Evaluate("AAPL", 99); len(fired) != 0 {
		t.Fatalf("Price below threshold must not fire, got %d", len(fired))
	}

	fired := e.Evaluate("AAPL", 101)
	if len(fired) != 1 {
		t.Fatalf("Expected exactly one alert, got %d", len(fired))
	}
	if fired[0].SubscriberID != "c1" {
		t.Errorf("Expected owner c1, got %s", fired[0].SubscriberID)
	}
	a := fired[0].Alert
	if a.TickerID != "AAPL" || a.Price != 101 || a.AlertPrice != 100 || a.Type != "above" {
		t.Errorf("Unexpected alert payload: %+v", a)
	}

	// Already removed: must not fire again.
	if fired := e.Evaluate("AAPL", 102); len(fired) != 0 {
		t.Errorf("Fired alert must not fire a second time, got %d", len(fired))
	}
}

func TestEngine_BelowFires(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionBelow, 100))

	if fired := e.Evaluate("AAPL", 101); len(fired) != 0 {
		t.Fatal("Price above threshold must not fire a below alert")
	}
	if fired := e.Evaluate("AAPL", 99); len(fired) != 1 {
		t.Fatalf("Expected one alert, got %d", len(fired))
	}
}

func TestEngine_EqualityNeverFires(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))
	e.Register(sub("c1", "AAPL", alerts.DirectionBelow, 100))

	if fired := e.Evaluate("AAPL", 100); len(fired) != 0 {
		t.Errorf("Price equal to threshold must never fire, got %d", len(fired))
	}
}

func TestEngine_DuplicateRegistrationOverwrites(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))

	if fired := e.Evaluate("AAPL", 101); len(fired) != 1 {
		t.Errorf("Duplicate registration must overwrite, not duplicate: got %d", len(fired))
	}
}

func TestEngine_QualifyingAlertsFireInSameBatch(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))
	e.Register(sub("c2", "AAPL", alerts.DirectionAbove, 50))
	e.Register(sub("c1", "AAPL", alerts.DirectionBelow, 200))

	if fired := e.Evaluate("AAPL", 101); len(fired) != 3 {
		t.Errorf("All qualifying subscriptions must fire together, got %d", len(fired))
	}
}

func TestEngine_EvaluateOtherTickerLeavesSubscriptions(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))

	if fired := e.Evaluate("GOOGL", 500); len(fired) != 0 {
		t.Fatal("Different instrument must not fire")
	}
	if fired := e.Evaluate("AAPL", 101); len(fired) != 1 {
		t.Error("Subscription should still be active")
	}
}

func TestEngine_Cancel(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	s := sub("c1", "AAPL", alerts.DirectionAbove, 100)
	e.Register(s)
	e.Cancel(s)

	if fired := e.Evaluate("AAPL", 101); len(fired) != 0 {
		t.Error("Cancelled subscription must not fire")
	}

	// Cancelling again is a no-op.
	e.Cancel(s)
}

func TestEngine_CancelAllRemovesOnlyThatSubscriber(t *testing.T) {
	e := alerts.NewEngine(zap.NewNop())
	e.Register(sub("c1", "AAPL", alerts.DirectionAbove, 100))
	e.Register(sub("c1", "GOOGL", alerts.DirectionBelow, 150))
	e.Register(sub("c2", "AAPL", alerts.DirectionAbove, 90))

	e.CancelAll("c1")

	fired := e.Evaluate("AAPL", 101)
	if len(fired) != 1 || fired[0].SubscriberID != "c2" {
		t.Errorf("Only c2's subscription should remain, got %+v", fired)
	}
	if fired := e.Evaluate("GOOGL", 100); len(fired) != 0 {
		t.Error("c1's GOOGL subscription should be gone")
	}
}

func TestDirection_Valid(t *testing.T) {
	if !alerts.DirectionAbove.Valid() || !alerts.DirectionBelow.Valid() {
		t.Error("above/below must be valid directions")
	}
	if alerts.Direction("higher").Valid() {
		t.Error("Unknown directions must be rejected")
	}
}
