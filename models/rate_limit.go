package models

import "time"

// RateLimit is the fixed window counter of a sender address.
type RateLimit struct {
	Address string    `gorm:"primary_key;size:255" json:"address"`
	Count   int       `gorm:"not null" json:"count"`
	ResetAt time.Time `gorm:"not null" json:"reset_at"`
}
