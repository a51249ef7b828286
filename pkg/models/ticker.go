package models

import "time"

// Category classifies an instrument by asset class.
type Category string

const (
	CategoryStock     Category = "stock"
	CategoryCrypto    Category = "crypto"
	CategoryForex     Category = "forex"
	CategoryCommodity Category = "commodity"
)

// Ticker is a tradable instrument tracked by the system.
// CurrentPrice/Change/ChangePercent/LastUpdate are mutated only by the
// price engine tick pipeline; everything else is fixed at seed time.
type Ticker struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	CurrentPrice  float64   `json:"currentPrice"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	LastUpdate    time.Time `json:"lastUpdate"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	PreviousClose float64   `json:"previousClose"`
	Category      Category  `json:"category"`
}

// PriceUpdate represents a single market tick for one instrument.
// All numeric fields are rounded to 2 decimal places for presentation.
type PriceUpdate struct {
	TickerID      string    `json:"tickerId"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Timestamp     time.Time `json:"timestamp"`
}

// HistoricalPoint is one sample of a synthetic historical series.
type HistoricalPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`
}

// AlertTriggered is the payload delivered to a client whose price
// threshold was crossed.
type AlertTriggered struct {
	TickerID   string  `json:"tickerId"`
	Price      float64 `json:"price"`
	AlertPrice float64 `json:"alertPrice"`
	Type       string  `json:"type"`
}
