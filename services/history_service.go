package services

import (
	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

// HistoryService is the read side: it reconstructs finished games and
// their per-round outcomes from the ledger for display.
type HistoryService struct {
	db       *gorm.DB
	sessions *SessionService
}

func NewHistoryService(db *gorm.DB, sessions *SessionService) *HistoryService {
	return &HistoryService{db: db, sessions: sessions}
}

type CompletedGame struct {
	models.GameSession
	TotalRoundsPlayed int `json:"total_rounds_played"`
}

type DetailedGame struct {
	Session      models.GameSession `json:"session"`
	StartingHand []models.GameRound `json:"starting_hand"`
	Rounds       []models.GameRound `json:"rounds"`
}

// ListCompleted returns the user's finished games, most recent first.
// Legacy rows that hit a terminal counter without being marked completed
// are included too.
func (s *HistoryService) ListCompleted(userID uint, limit int) ([]CompletedGame, error) {
	if limit <= 0 {
		limit = 10
	}

	var sessions []models.GameSession
	err := s.db.Preload("Theme").
		Where("user_id = ?", userID).
		Where("status = ? OR cards_won >= 3 OR wrong_guesses >= max_wrong_guesses OR game_result IS NOT NULL",
			models.SessionCompleted).
		Order("time_started DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []CompletedGame{}, nil
	}

	sessionIDs := make([]uint, len(sessions))
	for i, session := range sessions {
		sessionIDs[i] = session.ID
	}

	type roundCount struct {
		GameSessionID uint
		Count         int
	}
	var counts []roundCount
	err = s.db.Model(&models.GameRound{}).
		Select("game_session_id, COUNT(*) AS count").
		Where("game_session_id IN ?", sessionIDs).
		Group("game_session_id").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	countByID := make(map[uint]int, len(counts))
	for _, c := range counts {
		countByID[c.GameSessionID] = c.Count
	}

	games := make([]CompletedGame, len(sessions))
	for i, session := range sessions {
		games[i] = CompletedGame{
			GameSession:       session,
			TotalRoundsPlayed: countByID[session.ID],
		}
	}
	return games, nil
}

// DetailedGame returns one finished game with its full ordered round
// list, split into the dealt starting hand and the gameplay rounds.
func (s *HistoryService) DetailedGame(userID uint, sessionID uint) (*DetailedGame, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID == nil || *session.UserID != userID {
		return nil, ErrForbidden
	}

	rounds, err := s.sessions.ListRounds(sessionID)
	if err != nil {
		return nil, err
	}

	detail := &DetailedGame{
		Session:      *session,
		StartingHand: []models.GameRound{},
		Rounds:       []models.GameRound{},
	}
	for _, round := range rounds {
		if round.RoundNumber == 0 {
			detail.StartingHand = append(detail.StartingHand, round)
		} else {
			detail.Rounds = append(detail.Rounds, round)
		}
	}
	return detail, nil
}

// ClearFor deletes all of the user's games and their round ledgers.
func (s *HistoryService) ClearFor(userID uint) (deletedSessions int64, deletedRounds int64, err error) {
	return s.sessions.ClearFor(userID)
}
