package services

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

// CardService is the read-only card store. Cards are seeded once and
// never change at runtime, so every method is a plain query.
type CardService struct {
	db *gorm.DB
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{db: db}
}

// SampleRandom draws count cards from a theme uniformly at random,
// excluding ids already used in the session. Fails with ErrNotFound if
// the theme has fewer than count unused cards.
func (s *CardService) SampleRandom(themeID uint, count int, excludeIDs []uint) ([]models.Card, error) {
	cards, err := s.availableCards(themeID, excludeIDs)
	if err != nil {
		return nil, err
	}
	if len(cards) < count {
		return nil, ErrNotFound
	}

	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards[:count], nil
}

// DeterministicPick returns the one card for a given round. The pick is a
// pure function of (sessionID, round): the unused cards are ordered by id
// and indexed by a hash, so repeated reads of the current card (e.g. a
// page reload) return the same card until a guess is submitted.
func (s *CardService) DeterministicPick(themeID uint, usedIDs []uint, sessionID uint, round int) (*models.Card, error) {
	cards, err := s.availableCards(themeID, usedIDs)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrOutOfCards
	}

	idx := roundSeed(sessionID, round) % uint64(len(cards))
	card := cards[idx]
	return &card, nil
}

// Get returns a single card including its hidden severity. Callers must
// not forward the severity to clients before the guess is resolved.
func (s *CardService) Get(cardID uint) (*models.Card, error) {
	var card models.Card
	if err := s.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (s *CardService) availableCards(themeID uint, excludeIDs []uint) ([]models.Card, error) {
	query := s.db.Where("theme_id = ?", themeID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var cards []models.Card
	if err := query.Order("id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// roundSeed hashes the session/round pair instead of doing arithmetic on
// raw ids, so sparse id ranges don't bias the pick.
func roundSeed(sessionID uint, round int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", sessionID, round)
	return h.Sum64()
}
