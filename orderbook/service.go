package orderbook

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/google/uuid"

	"github.com/namepage/namepage/crypto"
	"github.com/namepage/namepage/models"
)

var ErrInvalidOffer = errors.New("Invalid offer parameters")

type Store interface {
	CreateOffer(offer *models.Offer) error
	Offers(domain, bidder string) ([]models.Offer, error)
}

type Service struct {
	sync.RWMutex
	Store Store
	Clock func() time.Time
	books map[string]Book
}

func NewService(store Store) *Service {
	return &Service{
		Store: store,
		Clock: time.Now,
		books: make(map[string]Book),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetBook registers the market snapshot of a domain.
func (s *Service) SetBook(book Book) {
	s.Lock()
	defer s.Unlock()

	book.Domain = normalize(book.Domain)
	s.books[book.Domain] = book.clone()
}

// Book returns the snapshot of domain with its active offers merged in as
// bids, or nil if there is no market for it.
func (s *Service) Book(domain string) (*Book, error) {
	domain = normalize(domain)

	s.RLock()
	snapshot, found := s.books[domain]
	s.RUnlock()

	offers, err := s.Store.Offers(domain, "")
	if err != nil {
		return nil, err
	}

	book := snapshot.clone()
	book.Domain = domain
	merged := 0
	for _, offer := range offers {
		if offer.Status == models.OfferActive {
			book.Bids = append(book.Bids, Level{Price: offer.Amount, Amount: 1})
			merged++
		}
	}

	if !found && merged == 0 {
		return nil, nil
	}

	book.normalize()
	book.LastUpdated = s.Clock()
	return &book, nil
}

func (s *Service) PlaceOffer(domain string, amount float64, bidder string) (*models.Offer, error) {
	domain = normalize(domain)
	if domain == "" || !crypto.IsAddress(strings.TrimSpace(bidder)) {
		return nil, ErrInvalidOffer
	} else if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidOffer
	}

	offer := &models.Offer{
		ID:        "offer_" + uuid.New().String(),
		CreatedAt: s.Clock(),
		Domain:    domain,
		Amount:    amount,
		Bidder:    crypto.NormalizeAddress(bidder),
		Status:    models.OfferActive,
	}

	if err := s.Store.CreateOffer(offer); err != nil {
		return nil, err
	}

	log.Info("offer %s of %f on %s by %s", offer.ID, offer.Amount, offer.Domain, offer.Bidder)
	return offer, nil
}

// Offers lists offers newest first, optionally filtered by domain and bidder.
func (s *Service) Offers(domain, bidder string) ([]models.Offer, error) {
	offers, err := s.Store.Offers(normalize(domain), crypto.NormalizeAddress(bidder))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}
