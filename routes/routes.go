package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HMiry/web-app-stuffhappen/handlers"
	"github.com/HMiry/web-app-stuffhappen/middleware"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	themeHandler *handlers.ThemeHandler,
	gameHandler *handlers.GameHandler,
	historyHandler *handlers.HistoryHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Theme browsing (public)
		themes := api.Group("/themes")
		{
			themes.GET("", themeHandler.ListActive)
			themes.GET("/all", themeHandler.ListAll)
			themes.GET("/:id/cards", themeHandler.GetCards)
		}

		// Game session routes serve both logged-in and anonymous demo
		// players, so auth is optional here and ownership is enforced
		// inside the service.
		games := api.Group("/game-sessions")
		games.Use(middleware.OptionalAuth(jwtSecret))
		{
			games.POST("", gameHandler.StartGame)
			games.GET("/:id", gameHandler.GetSession)
			games.GET("/:id/rounds", gameHandler.GetRounds)
			games.GET("/:id/next-card", gameHandler.NextCard)
			games.POST("/:id/rounds", gameHandler.SubmitRound)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.PUT("/auth/profile", authHandler.UpdateProfile)

			protected.GET("/game-sessions/active", gameHandler.GetActiveSession)

			history := protected.Group("/history")
			{
				history.GET("", historyHandler.List)
				history.GET("/:id", historyHandler.Detail)
				history.DELETE("", historyHandler.Clear)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
