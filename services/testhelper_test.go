package services

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// One connection so every query hits the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Card{},
		&models.GameSession{},
		&models.GameRound{},
	); err != nil {
		t.Fatal(err)
	}
	return db
}

// newFileTestDB backs the database with a file and keeps the default
// connection pool, for tests that need two submits in flight at once.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "game.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Card{},
		&models.GameSession{},
		&models.GameRound{},
	); err != nil {
		t.Fatal(err)
	}
	return db
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedTestTheme creates a theme with one card per severity, titled after
// its severity so failures are readable.
func seedTestTheme(t *testing.T, db *gorm.DB, key string, active, requiresLogin bool, severities []float64) *models.Theme {
	t.Helper()

	theme := models.Theme{
		ThemeKey:      key,
		Name:          key,
		IsActive:      active,
		RequiresLogin: requiresLogin,
	}
	if err := db.Create(&theme).Error; err != nil {
		t.Fatal(err)
	}
	for _, sev := range severities {
		card := models.Card{
			ThemeID:         theme.ID,
			Title:           fmt.Sprintf("card-%v", sev),
			BadLuckSeverity: sev,
		}
		if err := db.Create(&card).Error; err != nil {
			t.Fatal(err)
		}
	}
	return &theme
}

func seedTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return &user
}

// newTestGame wires a full GameService over an in-memory database and a
// miniredis instance, with "travel" as the demo theme key.
func newTestGame(t *testing.T, db *gorm.DB) *GameService {
	t.Helper()

	cards := NewCardService(db)
	sessions := NewSessionService(db)
	themes := NewThemeService(db)
	return NewGameService(db, newTestRedis(t), cards, sessions, themes, testLogger(), "travel")
}
