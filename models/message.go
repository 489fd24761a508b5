package models

import (
	"time"
)

const (
	MessageBodyMaxSize      = 500
	MessageSignatureMaxSize = 512
	MessageTargetMaxSize    = 255
	MessageSenderMaxSize    = 255
)

type Message struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	Target    string    `gorm:"size:255;not null;index" json:"target"`
	Sender    string    `gorm:"size:255;not null;index" json:"sender"`
	Body      string    `gorm:"size:2000;not null" json:"body"`
	Signature string    `gorm:"size:512;not null" json:"signature"`
	Verified  bool      `gorm:"not null" json:"verified"`
	Hidden    bool      `gorm:"not null;index" json:"hidden"`
	// client side timestamp in milliseconds, part of the signed text
	Timestamp int64 `gorm:"not null" json:"timestamp"`
}

// Mute silences a sender on the page of a target.
type Mute struct {
	ID        uint      `gorm:"primary_key" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Target    string    `gorm:"size:255;not null;unique_index:idx_mute_target_address" json:"target"`
	Address   string    `gorm:"size:255;not null;unique_index:idx_mute_target_address" json:"address"`
}
