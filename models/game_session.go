package models

import (
	"time"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"

	ResultWon  = "won"
	ResultLost = "lost"
)

type GameSession struct {
	ID                    uint       `json:"id" gorm:"primaryKey"`
	UserID                *uint      `json:"user_id" gorm:"index"` // nil = anonymous; demo play is never persisted
	ThemeID               uint       `json:"theme_id" gorm:"not null"`
	Status                string     `json:"status" gorm:"not null;default:'active'"` // active, completed
	GameResult            *string    `json:"game_result"`                             // won, lost
	TotalRounds           int        `json:"total_rounds" gorm:"not null;default:6"`
	CurrentRound          int        `json:"current_round" gorm:"not null;default:1"`
	CurrentRoundStartTime *time.Time `json:"current_round_start_time"`
	CardsWon              int        `json:"cards_won" gorm:"not null;default:0"`
	WrongGuesses          int        `json:"wrong_guesses" gorm:"not null;default:0"`
	MaxWrongGuesses       int        `json:"max_wrong_guesses" gorm:"not null;default:3"`
	FinalScore            int        `json:"final_score" gorm:"not null;default:0"`
	TimeStarted           time.Time  `json:"time_started"`
	TimeFinished          *time.Time `json:"time_finished"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Relationships
	User   *User       `json:"user,omitempty"`
	Theme  Theme       `json:"theme,omitempty"`
	Rounds []GameRound `json:"rounds,omitempty" gorm:"foreignKey:GameSessionID"`
}

// Terminal reports whether the session has reached a win/loss condition,
// independent of whether Status has caught up.
func (s *GameSession) Terminal() bool {
	return s.CardsWon >= 3 || s.WrongGuesses >= s.MaxWrongGuesses
}
