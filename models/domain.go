package models

import "time"

type Domain struct {
	Name      string    `gorm:"primary_key;size:255" json:"domain"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Owner     string    `gorm:"size:42;not null;index" json:"ownerAddress"`
}

type Payout struct {
	Domain    string    `gorm:"primary_key;size:255" json:"domain"`
	Address   string    `gorm:"size:42;not null" json:"to"`
	Mode      string    `gorm:"size:20;not null" json:"mode"`
	TxHash    *string   `gorm:"size:66" json:"txHash"`
	UpdatedAt time.Time `json:"updatedAt"`
}
