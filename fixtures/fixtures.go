package fixtures

import (
	_ "embed"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/evilsocket/islazy/log"
	"gopkg.in/yaml.v2"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/domains"
	"github.com/namepage/namepage/models"
	"github.com/namepage/namepage/orderbook"
)

//go:embed seed.yml
var defaultSeed []byte

type Domain struct {
	Name   string `yaml:"name"`
	Owner  string `yaml:"owner"`
	Payout string `yaml:"payout"`
}

type Level struct {
	Price  float64 `yaml:"price"`
	Amount float64 `yaml:"amount"`
}

type Trade struct {
	Price      float64 `yaml:"price"`
	Amount     float64 `yaml:"amount"`
	AgeSeconds int     `yaml:"age_seconds"`
	Type       string  `yaml:"type"`
}

type Orderbook struct {
	Domain         string  `yaml:"domain"`
	Volume24h      float64 `yaml:"volume_24h"`
	PriceChange24h float64 `yaml:"price_change_24h"`
	Liquidity      float64 `yaml:"liquidity"`
	Bids           []Level `yaml:"bids"`
	Asks           []Level `yaml:"asks"`
	Trades         []Trade `yaml:"trades"`
}

// Seed is the registry and market data loaded at startup in place of the
// on chain sources.
type Seed struct {
	Domains    []Domain    `yaml:"domains"`
	Orderbooks []Orderbook `yaml:"orderbooks"`
}

func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.UnmarshalStrict(data, &seed); err != nil {
		return nil, err
	}

	for _, domain := range seed.Domains {
		if domain.Name == "" {
			return nil, fmt.Errorf("domain without a name")
		} else if !crypto.IsAddress(domain.Owner) {
			return nil, fmt.Errorf("invalid owner address for %s: '%s'", domain.Name, domain.Owner)
		} else if domain.Payout != "" && !crypto.IsAddress(domain.Payout) {
			return nil, fmt.Errorf("invalid payout address for %s: '%s'", domain.Name, domain.Payout)
		}
	}

	for _, book := range seed.Orderbooks {
		if book.Domain == "" {
			return nil, fmt.Errorf("orderbook without a domain")
		}
	}

	return &seed, nil
}

// Load reads the seed from fileName, or the embedded default if empty.
func Load(fileName string) (*Seed, error) {
	if fileName == "" {
		return Parse(defaultSeed)
	}

	log.Debug("loading seed from %s ...", fileName)
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Apply writes owners and payouts to store and registers the orderbooks.
// Trade ages are relative to now.
func (seed *Seed) Apply(store domains.Store, books *orderbook.Service, now time.Time) error {
	for _, domain := range seed.Domains {
		name := domains.Normalize(domain.Name)
		if err := store.SetOwner(name, domain.Owner); err != nil {
			return err
		}
		if domain.Payout != "" {
			if err := store.SetPayout(&models.Payout{
				Domain:    name,
				Address:   crypto.NormalizeAddress(domain.Payout),
				Mode:      domains.PayoutMode,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
	}

	for _, ob := range seed.Orderbooks {
		book := orderbook.Book{
			Domain:         ob.Domain,
			Bids:           make([]orderbook.Level, 0),
			Asks:           make([]orderbook.Level, 0),
			RecentTrades:   make([]orderbook.Trade, 0),
			Volume24h:      ob.Volume24h,
			PriceChange24h: ob.PriceChange24h,
			Liquidity:      ob.Liquidity,
		}
		for _, l := range ob.Bids {
			book.Bids = append(book.Bids, orderbook.Level{Price: l.Price, Amount: l.Amount})
		}
		for _, l := range ob.Asks {
			book.Asks = append(book.Asks, orderbook.Level{Price: l.Price, Amount: l.Amount})
		}
		for _, t := range ob.Trades {
			book.RecentTrades = append(book.RecentTrades, orderbook.Trade{
				Price:     t.Price,
				Amount:    t.Amount,
				Timestamp: now.Add(-time.Duration(t.AgeSeconds) * time.Second),
				Type:      t.Type,
			})
		}
		books.SetBook(book)
	}

	log.Info("seeded %d domains and %d orderbooks", len(seed.Domains), len(seed.Orderbooks))
	return nil
}
