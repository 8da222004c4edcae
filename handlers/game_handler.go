package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HMiry/web-app-stuffhappen/middleware"
	"github.com/HMiry/web-app-stuffhappen/models"
	"github.com/HMiry/web-app-stuffhappen/services"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req services.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.StartGame(middleware.UserID(c), req.ThemeKey)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Game started! These 3 cards are your starting hand, ordered by severity."
	sessionID := interface{}(result.DemoID)
	if !result.Demo {
		sessionID = result.Session.ID
	} else {
		message = "Demo game: 1 round only. Log in to play full games!"
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":    sessionID,
		"theme":         result.Theme,
		"cards":         result.Cards,
		"demo":          result.Demo,
		"max_rounds":    result.MaxRounds,
		"starting_hand": true,
		"message":       message,
	})
}

func (h *GameHandler) GetActiveSession(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	session, err := h.gameService.ActiveSession(*userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *GameHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if services.IsDemoID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demo sessions do not persist - start a new demo game"})
		return
	}

	sessionID, ok := parseSessionID(c, id)
	if !ok {
		return
	}

	session, err := h.gameService.GetSession(sessionID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *GameHandler) GetRounds(c *gin.Context) {
	id := c.Param("id")
	if services.IsDemoID(id) {
		// Demo has no persistent rounds.
		c.JSON(http.StatusOK, []models.GameRound{})
		return
	}

	sessionID, ok := parseSessionID(c, id)
	if !ok {
		return
	}

	rounds, err := h.gameService.GetRounds(sessionID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rounds)
}

func (h *GameHandler) NextCard(c *gin.Context) {
	id := c.Param("id")

	var result *services.NextCardResult
	var err error
	if services.IsDemoID(id) {
		if middleware.UserID(c) != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Logged-in users should not use demo sessions"})
			return
		}
		result, err = h.gameService.DemoNextCard(id)
	} else {
		sessionID, ok := parseSessionID(c, id)
		if !ok {
			return
		}
		result, err = h.gameService.NextCard(sessionID, middleware.UserID(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}

	// Severity stays hidden until the guess is resolved.
	c.JSON(http.StatusOK, gin.H{
		"id":             result.Card.ID,
		"title":          result.Card.Title,
		"description":    result.Card.Description,
		"image_url":      result.Card.ImageURL,
		"theme_id":       result.Card.ThemeID,
		"demo":           result.Demo,
		"remaining_time": result.RemainingTime,
		"round_number":   result.RoundNumber,
	})
}

func (h *GameHandler) SubmitRound(c *gin.Context) {
	id := c.Param("id")

	var req services.SubmitRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result *services.RoundResult
	var err error
	if services.IsDemoID(id) {
		if middleware.UserID(c) != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Logged-in users should not use demo sessions"})
			return
		}
		result, err = h.gameService.DemoSubmitRound(id, &req)
	} else {
		sessionID, ok := parseSessionID(c, id)
		if !ok {
			return
		}
		result, err = h.gameService.SubmitRound(sessionID, middleware.UserID(c), &req)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"is_correct":       result.IsCorrect,
		"correct_position": result.CorrectPosition,
		"points_earned":    result.PointsEarned,
		"card_revealed":    result.Card,
		"game_status":      result.GameStatus,
		"demo":             result.Demo,
		"message":          roundMessage(result, req.UserChoicePosition),
	}
	if result.Demo {
		response["round_id"] = "demo_round"
	} else {
		response["round_id"] = result.RoundID
		response["session_updates"] = gin.H{
			"current_round": result.Session.CurrentRound,
			"cards_won":     result.Session.CardsWon,
			"wrong_guesses": result.Session.WrongGuesses,
			"final_score":   result.Session.FinalScore,
		}
	}
	if result.TimeoutPenalty {
		response["timeout_penalty"] = true
	}

	c.JSON(http.StatusCreated, response)
}

// roundMessage keeps the three outcomes a player must be able to tell
// apart: slow, wrong, and right.
func roundMessage(result *services.RoundResult, chosen int) string {
	switch {
	case result.TimeoutPenalty:
		return "Time's up! Answers over 30 seconds are considered incorrect."
	case result.IsCorrect:
		return fmt.Sprintf("Correct! The card belonged in position %d.", result.CorrectPosition)
	default:
		return fmt.Sprintf("Wrong! The card belonged in position %d, not %d.", result.CorrectPosition, chosen)
	}
}

func parseSessionID(c *gin.Context, id string) (uint, bool) {
	parsed, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return 0, false
	}
	return uint(parsed), true
}
