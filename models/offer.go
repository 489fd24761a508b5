package models

import "time"

const (
	OfferActive   = "active"
	OfferAccepted = "accepted"
	OfferRejected = "rejected"
	OfferExpired  = "expired"
)

type Offer struct {
	ID        string    `gorm:"primary_key;size:64" json:"id"`
	CreatedAt time.Time `json:"timestamp"`
	Domain    string    `gorm:"size:255;not null;index" json:"domain"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Bidder    string    `gorm:"size:42;not null;index" json:"bidder"`
	Status    string    `gorm:"size:20;not null" json:"status"`
}
