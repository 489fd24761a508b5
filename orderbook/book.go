package orderbook

import (
	"math"
	"sort"
	"time"
)

type Level struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Total  float64 `json:"total"`
}

type Trade struct {
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

type Book struct {
	Domain         string    `json:"domain"`
	BestBid        float64   `json:"bestBid"`
	BestAsk        float64   `json:"bestAsk"`
	Bids           []Level   `json:"bids"`
	Asks           []Level   `json:"asks"`
	RecentTrades   []Trade   `json:"recentTrades"`
	Volume24h      float64   `json:"volume24h"`
	PriceChange24h float64   `json:"priceChange24h"`
	Liquidity      float64   `json:"liquidity"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func (b Book) clone() Book {
	b.Bids = append(make([]Level, 0, len(b.Bids)), b.Bids...)
	b.Asks = append(make([]Level, 0, len(b.Asks)), b.Asks...)
	b.RecentTrades = append(make([]Trade, 0, len(b.RecentTrades)), b.RecentTrades...)
	return b
}

// normalize sorts levels (bids descending, asks ascending, trades newest
// first), recomputes level totals and the best prices.
func (b *Book) normalize() {
	for i := range b.Bids {
		b.Bids[i].Total = round(b.Bids[i].Price * b.Bids[i].Amount)
	}
	for i := range b.Asks {
		b.Asks[i].Total = round(b.Asks[i].Price * b.Asks[i].Amount)
	}

	sort.SliceStable(b.Bids, func(i, j int) bool {
		return b.Bids[i].Price > b.Bids[j].Price
	})
	sort.SliceStable(b.Asks, func(i, j int) bool {
		return b.Asks[i].Price < b.Asks[j].Price
	})
	sort.SliceStable(b.RecentTrades, func(i, j int) bool {
		return b.RecentTrades[i].Timestamp.After(b.RecentTrades[j].Timestamp)
	})

	b.BestBid, b.BestAsk = 0, 0
	if len(b.Bids) > 0 {
		b.BestBid = b.Bids[0].Price
	}
	if len(b.Asks) > 0 {
		b.BestAsk = b.Asks[0].Price
	}
}
