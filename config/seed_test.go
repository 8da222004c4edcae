package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&models.Theme{}, &models.Card{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSeedIfEmpty(t *testing.T) {
	db := newSeedTestDB(t)

	if err := SeedIfEmpty(db); err != nil {
		t.Fatal(err)
	}

	var themes []models.Theme
	if err := db.Order("id ASC").Find(&themes).Error; err != nil {
		t.Fatal(err)
	}
	if len(themes) == 0 {
		t.Fatal("no themes seeded")
	}

	byKey := map[string]models.Theme{}
	for _, theme := range themes {
		byKey[theme.ThemeKey] = theme
	}
	demo, ok := byKey["travel"]
	if !ok {
		t.Fatal("travel theme missing")
	}
	if !demo.IsActive || demo.RequiresLogin {
		t.Errorf("travel theme must be playable anonymously: %+v", demo)
	}

	// Every theme needs enough cards for a starting hand plus six rounds.
	for _, theme := range themes {
		if !theme.IsActive {
			continue
		}
		var count int64
		if err := db.Model(&models.Card{}).Where("theme_id = ?", theme.ID).Count(&count).Error; err != nil {
			t.Fatal(err)
		}
		if count < 9 {
			t.Errorf("theme %q has %d cards, want at least 9", theme.ThemeKey, count)
		}
	}

	// Severities are the ranking index, so they must be unique per theme.
	for _, theme := range themes {
		var cards []models.Card
		if err := db.Where("theme_id = ?", theme.ID).Find(&cards).Error; err != nil {
			t.Fatal(err)
		}
		seen := map[float64]string{}
		for _, card := range cards {
			if prev, dup := seen[card.BadLuckSeverity]; dup {
				t.Errorf("theme %q: %q and %q share severity %v",
					theme.ThemeKey, prev, card.Title, card.BadLuckSeverity)
			}
			seen[card.BadLuckSeverity] = card.Title
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)

	if err := SeedIfEmpty(db); err != nil {
		t.Fatal(err)
	}
	var before int64
	if err := db.Model(&models.Card{}).Count(&before).Error; err != nil {
		t.Fatal(err)
	}

	if err := SeedIfEmpty(db); err != nil {
		t.Fatal(err)
	}
	var after int64
	if err := db.Model(&models.Card{}).Count(&after).Error; err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("second seed changed card count: %d -> %d", before, after)
	}
}
