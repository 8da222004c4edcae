package models

import (
	"time"
)

type Theme struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ThemeKey      string    `json:"theme_key" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	RequiresLogin bool      `json:"requires_login" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Cards []Card `json:"cards,omitempty" gorm:"foreignKey:ThemeID"`
}
