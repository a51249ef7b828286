package models

// SeedTickers returns the static instrument set the process boots with.
// Base prices anchor the random walk; nothing here is persisted.
func SeedTickers() []Ticker {
	return []Ticker{
		{ID: "AAPL", Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: 178.25, DayHigh: 180.10, DayLow: 176.30, PreviousClose: 177.80, Volume: 52_000_000, Category: CategoryStock},
		{ID: "GOOGL", Symbol: "GOOGL", Name: "Alphabet Inc.", CurrentPrice: 141.80, DayHigh: 143.25, DayLow: 140.15, PreviousClose: 142.10, Volume: 24_000_000, Category: CategoryStock},
		{ID: "TSLA", Symbol: "TSLA", Name: "Tesla Inc.", CurrentPrice: 248.50, DayHigh: 252.70, DayLow: 245.10, PreviousClose: 246.90, Volume: 98_000_000, Category: CategoryStock},
		{ID: "BTC", Symbol: "BTC-USD", Name: "Bitcoin", CurrentPrice: 43250.00, DayHigh: 43980.00, DayLow: 42610.00, PreviousClose: 43105.00, Volume: 31_000_000, Category: CategoryCrypto},
		{ID: "ETH", Symbol: "ETH-USD", Name: "Ethereum", CurrentPrice: 2280.00, DayHigh: 2321.00, DayLow: 2244.00, PreviousClose: 2265.00, Volume: 14_000_000, Category: CategoryCrypto},
		{ID: "EURUSD", Symbol: "EUR/USD", Name: "Euro / US Dollar", CurrentPrice: 1.0875, DayHigh: 1.0912, DayLow: 1.0851, PreviousClose: 1.0883, Volume: 120_000_000, Category: CategoryForex},
		{ID: "XAU", Symbol: "XAU/USD", Name: "Gold Spot", CurrentPrice: 2035.50, DayHigh: 2041.80, DayLow: 2028.20, PreviousClose: 2032.40, Volume: 8_500_000, Category: CategoryCommodity},
		{ID: "WTI", Symbol: "CL=F", Name: "Crude Oil WTI", CurrentPrice: 78.25, DayHigh: 79.40, DayLow: 77.15, PreviousClose: 77.90, Volume: 11_000_000, Category: CategoryCommodity},
	}
}
