package memory

import (
	"github.com/namepage/namepage/models"
)

// UpdateLimit holds the store lock across update, which makes the
// read-modify-write atomic for concurrent attempts on the same address.
func (s *Store) UpdateLimit(address string, update func(entry *models.RateLimit, found bool) bool) (bool, error) {
	s.Lock()
	defer s.Unlock()

	entry, found := s.limits[address]
	if !update(&entry, found) {
		return false, nil
	}
	entry.Address = address
	s.limits[address] = entry
	return true, nil
}

func (s *Store) Owner(name string) (string, error) {
	s.Lock()
	defer s.Unlock()
	return s.owners[name], nil
}

func (s *Store) SetOwner(name, owner string) error {
	s.Lock()
	defer s.Unlock()
	s.owners[name] = owner
	return nil
}

func (s *Store) Payout(name string) (*models.Payout, error) {
	s.Lock()
	defer s.Unlock()

	if payout, found := s.payouts[name]; found {
		return &payout, nil
	}
	return nil, models.ErrNotFound
}

func (s *Store) SetPayout(payout *models.Payout) error {
	s.Lock()
	defer s.Unlock()

	if payout.UpdatedAt.IsZero() {
		payout.UpdatedAt = s.Clock()
	}
	s.payouts[payout.Domain] = *payout
	return nil
}

func (s *Store) CreateOffer(offer *models.Offer) error {
	s.Lock()
	defer s.Unlock()

	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = s.Clock()
	}
	s.offers = append(s.offers, *offer)
	return nil
}

func (s *Store) Offers(domain, bidder string) ([]models.Offer, error) {
	s.Lock()
	defer s.Unlock()

	list := make([]models.Offer, 0)
	for _, offer := range s.offers {
		if domain != "" && offer.Domain != domain {
			continue
		} else if bidder != "" && offer.Bidder != bidder {
			continue
		}
		list = append(list, offer)
	}
	return list, nil
}

func (s *Store) Settings(name string) (*models.PageSettings, error) {
	s.Lock()
	defer s.Unlock()

	if settings, found := s.settings[name]; found {
		return &settings, nil
	}
	return nil, models.ErrNotFound
}

func (s *Store) SetSettings(settings *models.PageSettings) error {
	s.Lock()
	defer s.Unlock()

	settings.UpdatedAt = s.Clock()
	s.settings[settings.Domain] = *settings
	return nil
}
