package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

const (
	// RoundTimeLimit is the per-round guessing window in seconds.
	// Anything slower is forced incorrect.
	RoundTimeLimit = 30

	GameStatusContinue     = "continue"
	GameStatusWon          = "won"
	GameStatusLost         = "lost"
	GameStatusDemoComplete = "demo_complete"

	maxRoundsFull = 6
	maxRoundsDemo = 1

	demoIDPrefix = "demo-"
	demoStateTTL = 30 * time.Minute
)

// demoHand is the synthetic starting hand demo rounds resolve against.
// Demo play never touches the session tables.
var demoHand = []float64{1, 2, 3}

// GameService runs game sessions: it deals starting hands, serves the
// current round's card, and resolves guesses against the hidden severity
// ranking. Persisted sessions live in the database; anonymous demo play
// keeps its one-round state in Redis and is never written to storage.
type GameService struct {
	db           *gorm.DB
	redis        *redis.Client
	cards        *CardService
	sessions     *SessionService
	themes       *ThemeService
	logger       *slog.Logger
	demoThemeKey string
}

func NewGameService(db *gorm.DB, redisClient *redis.Client, cards *CardService, sessions *SessionService, themes *ThemeService, logger *slog.Logger, demoThemeKey string) *GameService {
	return &GameService{
		db:           db,
		redis:        redisClient,
		cards:        cards,
		sessions:     sessions,
		themes:       themes,
		logger:       logger,
		demoThemeKey: demoThemeKey,
	}
}

type StartGameRequest struct {
	ThemeKey string `json:"theme_key" binding:"required"`
}

type SubmitRoundRequest struct {
	RoundNumber        int  `json:"round_number" binding:"required,min=1"`
	CardID             uint `json:"card_id" binding:"required"`
	UserChoicePosition int  `json:"user_choice_position" binding:"required,min=1"`
	TimeTaken          int  `json:"time_taken" binding:"min=0"`
}

type StartGameResult struct {
	Session   *models.GameSession // nil for demo
	DemoID    string              // set for demo
	Theme     models.Theme
	Cards     []models.Card // starting hand, ascending severity
	Demo      bool
	MaxRounds int
}

type NextCardResult struct {
	Card          models.Card // severity must be stripped before sending
	RemainingTime int
	RoundNumber   int
	Demo          bool
}

type RoundResult struct {
	RoundID         uint // 0 for demo rounds
	IsCorrect       bool
	CorrectPosition int
	PointsEarned    int
	Card            models.Card // revealed, severity included
	GameStatus      string
	TimeoutPenalty  bool
	Demo            bool
	Session         *models.GameSession // post-update counters; nil for demo
}

// IsDemoID reports whether a session reference names a non-persisted
// demo game rather than a database row.
func IsDemoID(id string) bool {
	return len(id) > len(demoIDPrefix) && id[:len(demoIDPrefix)] == demoIDPrefix
}

// StartGame begins a game for the theme. Logged-in players get a
// persisted session with the starting hand written as round 0 of the
// ledger; anonymous players get a one-round demo keyed by a throwaway id.
func (s *GameService) StartGame(userID *uint, themeKey string) (*StartGameResult, error) {
	theme, err := s.themes.GetByKey(themeKey)
	if err != nil {
		return nil, err
	}
	if !theme.IsActive {
		return nil, ErrNotFound
	}

	if userID == nil {
		if theme.RequiresLogin {
			return nil, ErrThemeRequiresLogin
		}
		if theme.ThemeKey != s.demoThemeKey {
			return nil, ErrDemoThemeRestricted
		}
		return s.startDemo(theme)
	}

	starting, err := s.cards.SampleRandom(theme.ID, 3, nil)
	if err != nil {
		return nil, err
	}
	sortBySeverity(starting)

	// The dealt hand becomes three round-0 ledger entries (always
	// correct, zero points), committed atomically with the session row.
	session, err := s.sessions.CreateWithHand(userID, theme.ID, starting)
	if err != nil {
		return nil, err
	}

	s.logger.Info("game session started",
		"session_id", session.ID, "user_id", *userID, "theme", theme.ThemeKey)

	session.Theme = *theme
	return &StartGameResult{
		Session:   session,
		Theme:     *theme,
		Cards:     starting,
		Demo:      false,
		MaxRounds: maxRoundsFull,
	}, nil
}

func (s *GameService) startDemo(theme *models.Theme) (*StartGameResult, error) {
	starting, err := s.cards.SampleRandom(theme.ID, 3, nil)
	if err != nil {
		return nil, err
	}
	sortBySeverity(starting)

	demoID := demoIDPrefix + uuid.NewString()
	state := &demoState{ThemeID: theme.ID}
	if err := s.storeDemoState(demoID, state); err != nil {
		return nil, err
	}

	s.logger.Info("demo game started", "demo_id", demoID, "theme", theme.ThemeKey)

	return &StartGameResult{
		DemoID:    demoID,
		Theme:     *theme,
		Cards:     starting,
		Demo:      true,
		MaxRounds: maxRoundsDemo,
	}, nil
}

// NextCard serves the card for the session's current round. The pick is
// deterministic per (session, round) so a reload shows the same card,
// and the 30-second timer is anchored on the first read.
func (s *GameService) NextCard(sessionID uint, userID *uint) (*NextCardResult, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrAlreadyCompleted
	}

	rounds, err := s.sessions.ListRounds(sessionID)
	if err != nil {
		return nil, err
	}
	usedIDs := make([]uint, 0, len(rounds))
	for _, r := range rounds {
		usedIDs = append(usedIDs, r.CardID)
	}

	card, err := s.cards.DeterministicPick(session.ThemeID, usedIDs, session.ID, session.CurrentRound)
	if err != nil {
		return nil, err
	}

	if session.CurrentRoundStartTime == nil {
		now := time.Now()
		if err := s.sessions.Update(session.ID, map[string]interface{}{
			"current_round_start_time": now,
		}); err != nil {
			return nil, err
		}
		session.CurrentRoundStartTime = &now
	}

	return &NextCardResult{
		Card:          *card,
		RemainingTime: remainingTime(session.CurrentRoundStartTime, time.Now()),
		RoundNumber:   session.CurrentRound,
		Demo:          false,
	}, nil
}

// DemoNextCard pins one random card to the demo id so reloads keep
// showing the same card until the single demo round is played.
func (s *GameService) DemoNextCard(demoID string) (*NextCardResult, error) {
	state, err := s.getDemoState(demoID)
	if err != nil {
		return nil, err
	}
	if state.Played {
		return nil, ErrDemoExhausted
	}

	if state.CardID == 0 {
		picked, err := s.cards.SampleRandom(state.ThemeID, 1, nil)
		if err != nil {
			return nil, err
		}
		state.CardID = picked[0].ID
		if err := s.storeDemoState(demoID, state); err != nil {
			return nil, err
		}
	}

	card, err := s.cards.Get(state.CardID)
	if err != nil {
		return nil, err
	}

	return &NextCardResult{
		Card:          *card,
		RemainingTime: RoundTimeLimit,
		RoundNumber:   1,
		Demo:          true,
	}, nil
}

// SubmitRound resolves one guess for a persisted session and advances it.
// The ledger row and the counter update commit together; the counter
// update is a compare-and-set against (status, current_round), so a
// double submit cannot push a finished session past its terminal state.
func (s *GameService) SubmitRound(sessionID uint, userID *uint, req *SubmitRoundRequest) (*RoundResult, error) {
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrAlreadyCompleted
	}
	// A terminal counter on a still-active row means a finalize was
	// missed somewhere; refuse to stack more rounds on top of it.
	if session.Terminal() {
		return nil, ErrInvariantViolation
	}

	card, err := s.cards.Get(req.CardID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.sessions.ListRounds(sessionID)
	if err != nil {
		return nil, err
	}
	hand := handSeverities(rounds)

	outcome := resolveGuess(hand, card.BadLuckSeverity, req.UserChoicePosition, req.TimeTaken)

	newCardsWon := session.CardsWon
	newWrongGuesses := session.WrongGuesses
	if outcome.IsCorrect {
		newCardsWon++
	} else {
		newWrongGuesses++
	}

	gameStatus := GameStatusContinue
	updates := map[string]interface{}{
		"current_round":            session.CurrentRound + 1,
		"current_round_start_time": nil,
		"cards_won":                newCardsWon,
		"wrong_guesses":            newWrongGuesses,
		"final_score":              session.FinalScore + outcome.PointsEarned,
	}
	// Terminal check uses the updated counters, never the stale row.
	if newCardsWon >= 3 {
		gameStatus = GameStatusWon
	} else if newWrongGuesses >= session.MaxWrongGuesses {
		gameStatus = GameStatusLost
	}
	var finishedAt time.Time
	if gameStatus != GameStatusContinue {
		finishedAt = time.Now()
		updates["status"] = models.SessionCompleted
		updates["game_result"] = gameStatus
		updates["time_finished"] = finishedAt
	}

	round := models.GameRound{
		GameSessionID:      session.ID,
		RoundNumber:        session.CurrentRound,
		CardID:             card.ID,
		UserChoicePosition: req.UserChoicePosition,
		CorrectPosition:    outcome.CorrectPosition,
		IsCorrect:          outcome.IsCorrect,
		TimeTaken:          req.TimeTaken,
		PointsEarned:       outcome.PointsEarned,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&round).Error; err != nil {
			return err
		}

		result := tx.Model(&models.GameSession{}).
			Where("id = ? AND status = ? AND current_round = ?",
				session.ID, models.SessionActive, session.CurrentRound).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent submit; roll the round back.
			return ErrAlreadyCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reflect the committed update on the in-memory copy for the caller.
	session.CurrentRound++
	session.CurrentRoundStartTime = nil
	session.CardsWon = newCardsWon
	session.WrongGuesses = newWrongGuesses
	session.FinalScore += outcome.PointsEarned
	if gameStatus != GameStatusContinue {
		session.Status = models.SessionCompleted
		result := gameStatus
		session.GameResult = &result
		session.TimeFinished = &finishedAt
		s.logger.Info("game session finished",
			"session_id", session.ID, "result", gameStatus, "final_score", session.FinalScore)
	}

	return &RoundResult{
		RoundID:         round.ID,
		IsCorrect:       outcome.IsCorrect,
		CorrectPosition: outcome.CorrectPosition,
		PointsEarned:    outcome.PointsEarned,
		Card:            *card,
		GameStatus:      gameStatus,
		TimeoutPenalty:  outcome.TimeoutPenalty,
		Demo:            false,
		Session:         session,
	}, nil
}

// DemoSubmitRound resolves the demo's single round against the synthetic
// hand. Nothing is persisted; a second attempt on the same demo id fails.
func (s *GameService) DemoSubmitRound(demoID string, req *SubmitRoundRequest) (*RoundResult, error) {
	state, err := s.getDemoState(demoID)
	if err != nil {
		return nil, err
	}
	if state.Played {
		return nil, ErrDemoExhausted
	}

	card, err := s.cards.Get(req.CardID)
	if err != nil {
		return nil, err
	}

	outcome := resolveGuess(demoHand, card.BadLuckSeverity, req.UserChoicePosition, req.TimeTaken)

	state.Played = true
	if err := s.storeDemoState(demoID, state); err != nil {
		return nil, err
	}

	return &RoundResult{
		IsCorrect:       outcome.IsCorrect,
		CorrectPosition: outcome.CorrectPosition,
		PointsEarned:    outcome.PointsEarned,
		Card:            *card,
		GameStatus:      GameStatusDemoComplete,
		TimeoutPenalty:  outcome.TimeoutPenalty,
		Demo:            true,
	}, nil
}

// GetSession returns a session for UI reconstruction, enforcing that the
// caller owns it.
func (s *GameService) GetSession(sessionID uint, userID *uint) (*models.GameSession, error) {
	return s.ownedSession(sessionID, userID)
}

// GetRounds returns the full ordered ledger for a session the caller owns.
func (s *GameService) GetRounds(sessionID uint, userID *uint) ([]models.GameRound, error) {
	if _, err := s.ownedSession(sessionID, userID); err != nil {
		return nil, err
	}
	return s.sessions.ListRounds(sessionID)
}

// ActiveSession returns the caller's in-progress session, if any.
func (s *GameService) ActiveSession(userID uint) (*models.GameSession, error) {
	return s.sessions.GetActiveFor(userID)
}

func (s *GameService) ownedSession(sessionID uint, userID *uint) (*models.GameSession, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != nil && (userID == nil || *userID != *session.UserID) {
		return nil, ErrForbidden
	}
	return session, nil
}

type guessOutcome struct {
	CorrectPosition int
	IsCorrect       bool
	TimeoutPenalty  bool
	PointsEarned    int
}

// resolveGuess is the scoring core shared by persisted and demo play.
// The correct slot is one past every hand card the new card does not
// beat; a severity tie inserts after the tied card. Guesses over the
// time limit are forced incorrect regardless of position.
func resolveGuess(hand []float64, severity float64, choice, timeTaken int) guessOutcome {
	position := 1
	for _, s := range hand {
		if s <= severity {
			position++
		}
	}

	timeout := timeTaken > RoundTimeLimit
	correct := !timeout && choice == position

	points := 0
	if correct {
		points = 100 - timeTaken
		if points < 10 {
			points = 10
		}
	}

	return guessOutcome{
		CorrectPosition: position,
		IsCorrect:       correct,
		TimeoutPenalty:  timeout,
		PointsEarned:    points,
	}
}

// handSeverities rebuilds the player's hand from the ledger: the dealt
// round-0 cards plus every correctly placed card, ascending by severity.
// It is recomputed on every resolution rather than cached.
func handSeverities(rounds []models.GameRound) []float64 {
	hand := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		if r.IsCorrect {
			hand = append(hand, r.Card.BadLuckSeverity)
		}
	}
	sort.Float64s(hand)
	return hand
}

func sortBySeverity(cards []models.Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].BadLuckSeverity < cards[j].BadLuckSeverity
	})
}

func remainingTime(anchor *time.Time, now time.Time) int {
	if anchor == nil {
		return RoundTimeLimit
	}
	elapsed := int(now.Sub(*anchor).Seconds())
	if elapsed >= RoundTimeLimit {
		return 0
	}
	return RoundTimeLimit - elapsed
}

type demoState struct {
	ThemeID uint `json:"theme_id"`
	CardID  uint `json:"card_id"`
	Played  bool `json:"played"`
}

func (s *GameService) storeDemoState(demoID string, state *demoState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal demo state: %w", err)
	}
	if err := s.redis.Set(context.Background(), "demo:"+demoID, data, demoStateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store demo state: %w", err)
	}
	return nil
}

func (s *GameService) getDemoState(demoID string) (*demoState, error) {
	data, err := s.redis.Get(context.Background(), "demo:"+demoID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		s.logger.Warn("redis error loading demo state", "demo_id", demoID, "error", err)
		return nil, err
	}

	var state demoState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal demo state: %w", err)
	}
	return &state, nil
}
