package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/HMiry/web-app-stuffhappen/config"
	"github.com/HMiry/web-app-stuffhappen/handlers"
	"github.com/HMiry/web-app-stuffhappen/middleware"
	"github.com/HMiry/web-app-stuffhappen/models"
	"github.com/HMiry/web-app-stuffhappen/routes"
	"github.com/HMiry/web-app-stuffhappen/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := config.NewLogger()
	slog.SetDefault(logger)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Card{},
		&models.GameSession{},
		&models.GameRound{},
	)
	if err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Seed themes and card decks on first run
	if err := config.SeedIfEmpty(db); err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	themeService := services.NewThemeService(db)
	cardService := services.NewCardService(db)
	sessionService := services.NewSessionService(db)
	gameService := services.NewGameService(db, redisClient, cardService, sessionService, themeService, logger, cfg.DemoThemeKey)
	historyService := services.NewHistoryService(db, sessionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	themeHandler := handlers.NewThemeHandler(themeService)
	gameHandler := handlers.NewGameHandler(gameService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, themeHandler, gameHandler, historyHandler, cfg.JWTSecret)

	// Start server
	addr := cfg.BindAddress + ":" + cfg.Port
	logger.Info("server starting", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
