package models

import (
	"time"
)

// Card is a disaster card. BadLuckSeverity is the hidden ranking index:
// it is revealed to clients only after a guess has been resolved.
type Card struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ThemeID         uint      `json:"theme_id" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	BadLuckSeverity float64   `json:"bad_luck_severity" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Theme Theme `json:"theme,omitempty"`
}
