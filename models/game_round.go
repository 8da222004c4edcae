package models

import (
	"time"
)

// GameRound is one append-only ledger entry. RoundNumber 0 marks a card
// dealt with the starting hand; those entries are always correct and
// earn no points.
type GameRound struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	GameSessionID      uint      `json:"game_session_id" gorm:"not null;index"`
	RoundNumber        int       `json:"round_number" gorm:"not null"`
	CardID             uint      `json:"card_id" gorm:"not null"`
	UserChoicePosition int       `json:"user_choice_position" gorm:"not null"`
	CorrectPosition    int       `json:"correct_position" gorm:"not null"`
	IsCorrect          bool      `json:"is_correct" gorm:"not null"`
	TimeTaken          int       `json:"time_taken" gorm:"not null"` // seconds
	PointsEarned       int       `json:"points_earned" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`

	// Relationships
	Session GameSession `json:"session,omitempty" gorm:"foreignKey:GameSessionID"`
	Card    Card        `json:"card,omitempty"`
}
