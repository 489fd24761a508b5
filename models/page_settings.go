package models

import "time"

const (
	SettingsTitleMaxSize       = 100
	SettingsDescriptionMaxSize = 500
	SettingsImageMaxSize       = 512
)

// PageSettings is how the owner customized the public page of a domain.
type PageSettings struct {
	Domain          string    `gorm:"primary_key;size:255"`
	UpdatedAt       time.Time `gorm:"not null"`
	Title           string    `gorm:"size:100;not null"`
	Description     string    `gorm:"size:500;not null"`
	PrimaryColor    string    `gorm:"size:7;not null"`
	BackgroundColor string    `gorm:"size:7;not null"`
	TextColor       string    `gorm:"size:7;not null"`
	OGImage         string    `gorm:"column:og_image;size:512"`
}
