package services

import (
	"errors"
	"testing"

	"github.com/HMiry/web-app-stuffhappen/models"
)

func seedFinishedGame(t *testing.T, sessions *SessionService, userID *uint, themeID uint, result string, gameplayRounds int) *models.GameSession {
	t.Helper()

	session, err := sessions.Create(userID, themeID)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := sessions.AppendRound(session.ID, models.GameRound{
			RoundNumber: 0, CardID: 1, IsCorrect: true,
		}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i <= gameplayRounds; i++ {
		if _, err := sessions.AppendRound(session.ID, models.GameRound{
			RoundNumber: i, CardID: 1, IsCorrect: result == models.ResultWon,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := sessions.Update(session.ID, map[string]interface{}{
		"status":      models.SessionCompleted,
		"game_result": result,
	}); err != nil {
		t.Fatal(err)
	}
	return session
}

func TestListCompleted(t *testing.T) {
	db := newTestDB(t)
	theme := seedTestTheme(t, db, "travel", true, false, []float64{10})
	user := seedTestUser(t, db, "alice")
	sessions := NewSessionService(db)
	svc := NewHistoryService(db, sessions)

	won := seedFinishedGame(t, sessions, &user.ID, theme.ID, models.ResultWon, 3)

	// An in-progress game must stay out of the history.
	if _, err := sessions.Create(&user.ID, theme.ID); err != nil {
		t.Fatal(err)
	}

	// A row whose counters hit a terminal value but whose status was never
	// flipped still counts as finished.
	legacy, err := sessions.Create(&user.ID, theme.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := sessions.Update(legacy.ID, map[string]interface{}{"wrong_guesses": 3}); err != nil {
		t.Fatal(err)
	}

	games, err := svc.ListCompleted(user.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	byID := map[uint]CompletedGame{}
	for _, g := range games {
		byID[g.ID] = g
	}
	if _, ok := byID[legacy.ID]; !ok {
		t.Error("legacy terminal-counter row missing from history")
	}
	if g, ok := byID[won.ID]; !ok {
		t.Error("completed game missing from history")
	} else if g.TotalRoundsPlayed != 6 {
		t.Errorf("TotalRoundsPlayed = %d, want 6", g.TotalRoundsPlayed)
	}

	t.Run("limit caps the list", func(t *testing.T) {
		games, err := svc.ListCompleted(user.ID, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(games) != 1 {
			t.Errorf("got %d games, want 1", len(games))
		}
	})

	t.Run("empty history", func(t *testing.T) {
		other := seedTestUser(t, db, "bob")
		games, err := svc.ListCompleted(other.ID, 0)
		if err != nil {
			t.Fatal(err)
		}
		if games == nil || len(games) != 0 {
			t.Errorf("got %v, want empty slice", games)
		}
	})
}

func TestDetailedGame(t *testing.T) {
	db := newTestDB(t)
	theme := seedTestTheme(t, db, "travel", true, false, []float64{10})
	user := seedTestUser(t, db, "alice")
	sessions := NewSessionService(db)
	svc := NewHistoryService(db, sessions)

	game := seedFinishedGame(t, sessions, &user.ID, theme.ID, models.ResultWon, 3)

	detail, err := svc.DetailedGame(user.ID, game.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.StartingHand) != 3 {
		t.Errorf("StartingHand has %d rows, want 3", len(detail.StartingHand))
	}
	if len(detail.Rounds) != 3 {
		t.Errorf("Rounds has %d rows, want 3", len(detail.Rounds))
	}
	for _, r := range detail.StartingHand {
		if r.RoundNumber != 0 {
			t.Errorf("starting hand row with round number %d", r.RoundNumber)
		}
	}
	for _, r := range detail.Rounds {
		if r.RoundNumber == 0 {
			t.Error("round 0 leaked into gameplay rounds")
		}
	}

	t.Run("other user's game", func(t *testing.T) {
		intruder := seedTestUser(t, db, "mallory")
		if _, err := svc.DetailedGame(intruder.ID, game.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing game", func(t *testing.T) {
		if _, err := svc.DetailedGame(user.ID, 9999); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestHistoryClearFor(t *testing.T) {
	db := newTestDB(t)
	theme := seedTestTheme(t, db, "travel", true, false, []float64{10})
	user := seedTestUser(t, db, "alice")
	sessions := NewSessionService(db)
	svc := NewHistoryService(db, sessions)

	seedFinishedGame(t, sessions, &user.ID, theme.ID, models.ResultLost, 3)

	deletedSessions, deletedRounds, err := svc.ClearFor(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deletedSessions != 1 || deletedRounds != 6 {
		t.Errorf("deleted %d sessions / %d rounds, want 1/6", deletedSessions, deletedRounds)
	}

	games, err := svc.ListCompleted(user.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Errorf("history not empty after clear: %d games", len(games))
	}
}
