package models

import (
	"github.com/pkg/errors"
)

func (r *Repository) CreateOffer(offer *Offer) error {
	return errors.Wrapf(r.db.Create(offer).Error, "creating offer on %s", offer.Domain)
}

// Offers returns offers in creation order, optionally filtered by domain
// and bidder.
func (r *Repository) Offers(domain, bidder string) ([]Offer, error) {
	offers := make([]Offer, 0)
	query := r.db.Model(Offer{})
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	if bidder != "" {
		query = query.Where("bidder = ?", bidder)
	}
	if err := query.Order("created_at asc").Find(&offers).Error; err != nil {
		return nil, errors.Wrap(err, "listing offers")
	}
	return offers, nil
}
