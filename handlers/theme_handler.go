package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HMiry/web-app-stuffhappen/services"
)

type ThemeHandler struct {
	themeService *services.ThemeService
}

func NewThemeHandler(themeService *services.ThemeService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService}
}

func (h *ThemeHandler) ListActive(c *gin.Context) {
	themes, err := h.themeService.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

func (h *ThemeHandler) ListAll(c *gin.Context) {
	themes, err := h.themeService.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

func (h *ThemeHandler) GetCards(c *gin.Context) {
	themeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme id"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
	}

	cards, err := h.themeService.Cards(uint(themeID), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	// Browsing never reveals the ranking index.
	views := make([]gin.H, len(cards))
	for i, card := range cards {
		views[i] = gin.H{
			"id":          card.ID,
			"theme_id":    card.ThemeID,
			"title":       card.Title,
			"description": card.Description,
			"image_url":   card.ImageURL,
		}
	}
	c.JSON(http.StatusOK, views)
}
