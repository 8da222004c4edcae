package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

// SessionService persists game sessions and their append-only round
// ledger. Sessions are only ever mutated through the whitelisted Update;
// rounds are never mutated at all.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// sessionUpdateFields is the only set of columns a caller may patch.
var sessionUpdateFields = map[string]bool{
	"current_round":            true,
	"current_round_start_time": true,
	"cards_won":                true,
	"wrong_guesses":            true,
	"final_score":              true,
	"status":                   true,
	"game_result":              true,
	"time_finished":            true,
}

func (s *SessionService) Create(userID *uint, themeID uint) (*models.GameSession, error) {
	session := models.GameSession{
		UserID:          userID,
		ThemeID:         themeID,
		Status:          models.SessionActive,
		TotalRounds:     6,
		CurrentRound:    1,
		CardsWon:        0,
		WrongGuesses:    0,
		MaxWrongGuesses: 3,
		FinalScore:      0,
		TimeStarted:     time.Now(),
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateWithHand creates a session together with its three round-0 ledger
// entries in one transaction, so no session row ever exists without a
// complete starting hand.
func (s *SessionService) CreateWithHand(userID *uint, themeID uint, hand []models.Card) (*models.GameSession, error) {
	session := models.GameSession{
		UserID:          userID,
		ThemeID:         themeID,
		Status:          models.SessionActive,
		TotalRounds:     6,
		CurrentRound:    1,
		CardsWon:        0,
		WrongGuesses:    0,
		MaxWrongGuesses: 3,
		FinalScore:      0,
		TimeStarted:     time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for i, card := range hand {
			round := models.GameRound{
				GameSessionID:      session.ID,
				RoundNumber:        0,
				CardID:             card.ID,
				UserChoicePosition: i + 1,
				CorrectPosition:    i + 1,
				IsCorrect:          true,
				TimeTaken:          0,
				PointsEarned:       0,
			}
			if err := tx.Create(&round).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) Get(sessionID uint) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.Preload("Theme").First(&session, sessionID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetActiveFor returns the user's most recent in-progress session, used
// to resume a game after a reload.
func (s *SessionService) GetActiveFor(userID uint) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.Preload("Theme").
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		Order("time_started DESC").
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update patches a session. Any field outside the whitelist rejects the
// whole update with ErrInvalidUpdate; zero matched rows is ErrNotFound.
func (s *SessionService) Update(sessionID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return ErrInvalidUpdate
	}
	for field := range updates {
		if !sessionUpdateFields[field] {
			return ErrInvalidUpdate
		}
	}

	result := s.db.Model(&models.GameSession{}).Where("id = ?", sessionID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SessionService) AppendRound(sessionID uint, round models.GameRound) (uint, error) {
	round.GameSessionID = sessionID
	if err := s.db.Create(&round).Error; err != nil {
		return 0, err
	}
	return round.ID, nil
}

// ListRounds returns the full ledger for a session, round 0 entries
// first, each joined with its card.
func (s *SessionService) ListRounds(sessionID uint) ([]models.GameRound, error) {
	var rounds []models.GameRound
	err := s.db.Preload("Card").
		Where("game_session_id = ?", sessionID).
		Order("round_number ASC, id ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

// ClearFor wipes a user's entire play history. Rounds go first so the
// session foreign keys stay valid throughout.
func (s *SessionService) ClearFor(userID uint) (deletedSessions int64, deletedRounds int64, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rounds := tx.Where(
			"game_session_id IN (?)",
			tx.Model(&models.GameSession{}).Select("id").Where("user_id = ?", userID),
		).Delete(&models.GameRound{})
		if rounds.Error != nil {
			return rounds.Error
		}
		deletedRounds = rounds.RowsAffected

		sessions := tx.Where("user_id = ?", userID).Delete(&models.GameSession{})
		if sessions.Error != nil {
			return sessions.Error
		}
		deletedSessions = sessions.RowsAffected
		return nil
	})
	return deletedSessions, deletedRounds, err
}
