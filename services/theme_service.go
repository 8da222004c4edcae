package services

import (
	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

// ThemeService is read-only: the session engine never creates or edits
// themes, it only browses them.
type ThemeService struct {
	db *gorm.DB
}

func NewThemeService(db *gorm.DB) *ThemeService {
	return &ThemeService{db: db}
}

func (s *ThemeService) ListActive() ([]models.Theme, error) {
	var themes []models.Theme
	err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&themes).Error
	return themes, err
}

func (s *ThemeService) ListAll() ([]models.Theme, error) {
	var themes []models.Theme
	err := s.db.Order("id ASC").Find(&themes).Error
	return themes, err
}

func (s *ThemeService) GetByKey(themeKey string) (*models.Theme, error) {
	var theme models.Theme
	err := s.db.Where("theme_key = ?", themeKey).First(&theme).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

func (s *ThemeService) Get(themeID uint) (*models.Theme, error) {
	var theme models.Theme
	err := s.db.First(&theme, themeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// Cards lists a theme's deck for browsing, ordered by id. Severity is in
// the returned models; handlers strip it before responding.
func (s *ThemeService) Cards(themeID uint, limit int) ([]models.Card, error) {
	query := s.db.Where("theme_id = ?", themeID).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var cards []models.Card
	err := query.Find(&cards).Error
	return cards, err
}
