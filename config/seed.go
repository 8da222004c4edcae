package config

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/HMiry/web-app-stuffhappen/models"
)

type seedCard struct {
	title    string
	severity float64
	image    string
}

// SeedIfEmpty loads the built-in themes and their disaster decks the first
// time the server runs against an empty database. Re-running is a no-op.
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Theme{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count themes: %w", err)
	}
	if count > 0 {
		return nil
	}

	themes := []struct {
		theme models.Theme
		cards []seedCard
	}{
		{
			theme: models.Theme{
				ThemeKey:      "travel",
				Name:          "Travel & Adventure",
				Description:   "Vacation disasters, travel mishaps, and adventure gone wrong",
				Icon:          "MapPin",
				Color:         "#10B981",
				IsActive:      true,
				RequiresLogin: false,
			},
			cards: travelCards,
		},
		{
			theme: models.Theme{
				ThemeKey:      "university",
				Name:          "University Life",
				Description:   "Academic disasters, dorm room catastrophes, and campus embarrassments",
				Icon:          "GraduationCap",
				Color:         "#4A90E2",
				IsActive:      true,
				RequiresLogin: true,
			},
			cards: universityCards,
		},
		{
			theme: models.Theme{
				ThemeKey:      "love",
				Name:          "Love & Dating",
				Description:   "Romantic disasters and relationship catastrophes",
				Icon:          "Heart",
				Color:         "#E91E63",
				IsActive:      true,
				RequiresLogin: true,
			},
			cards: loveCards,
		},
		{
			theme: models.Theme{
				ThemeKey:      "work",
				Name:          "Work & Career",
				Description:   "Professional disasters, office mishaps, and career catastrophes",
				Icon:          "Briefcase",
				Color:         "#6B7280",
				IsActive:      false,
				RequiresLogin: true,
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range themes {
			theme := entry.theme
			if err := tx.Create(&theme).Error; err != nil {
				return fmt.Errorf("failed to seed theme %s: %w", theme.ThemeKey, err)
			}
			for _, sc := range entry.cards {
				card := models.Card{
					ThemeID:         theme.ID,
					Title:           sc.title,
					Description:     sc.title,
					ImageURL:        sc.image,
					BadLuckSeverity: sc.severity,
				}
				if err := tx.Create(&card).Error; err != nil {
					return fmt.Errorf("failed to seed card for theme %s: %w", theme.ThemeKey, err)
				}
			}
		}
		return nil
	})
}

var travelCards = []seedCard{
	{"Missed your connecting flight by two minutes", 55.0, "/images/travel1.jpeg"},
	{"Hotel gave your room away at midnight", 62.5, "/images/travel2.jpeg"},
	{"Passport expired the day before departure", 90.0, "/images/travel3.jpeg"},
	{"Luggage sent to the wrong continent", 70.0, "/images/travel4.jpeg"},
	{"Booked the flight for the wrong month", 80.0, "/images/travel5.jpeg"},
	{"Got seasick on a glass-bottom boat tour", 25.0, "/images/travel6.jpeg"},
	{"Sunburned so badly you couldn't wear a shirt", 35.0, "/images/travel7.jpeg"},
	{"Rental car broke down in the desert", 75.0, "/images/travel8.jpeg"},
	{"Ate street food and regretted it for a week", 45.0, "/images/travel9.jpeg"},
	{"Locked yourself out of the hostel at 3 AM", 40.0, "/images/travel10.jpeg"},
	{"Wallet stolen on the first day abroad", 85.0, "/images/travel11.jpeg"},
	{"Followed GPS straight into a lake", 65.0, "/images/travel12.jpeg"},
	{"Boarded the train going the opposite direction", 30.0, "/images/travel13.jpeg"},
	{"Phone died with the boarding pass on screen", 50.0, "/images/travel14.jpeg"},
	{"Monkey stole your sunglasses at the temple", 15.0, "/images/travel15.jpeg"},
	{"Slept through the only bus of the day", 58.0, "/images/travel16.jpeg"},
	{"Tattooed a word that means something else entirely", 72.0, "/images/travel17.jpeg"},
	{"Quarantined in a windowless airport hotel", 95.0, "/images/travel18.jpeg"},
	{"Dropped your camera off a cliff viewpoint", 60.0, "/images/travel19.jpeg"},
	{"Jellyfish sting on the first beach day", 42.0, "/images/travel20.jpeg"},
}

var universityCards = []seedCard{
	{"Failed your thesis defense", 85.5, "/images/university1.jpeg"},
	{"Emailed professor at 3 AM asking for extension", 25.0, "/images/university2.jpeg"},
	{"Slept through your final exam", 90.0, "/images/university3.jpeg"},
	{"Forgot to submit your final assignment", 80.0, "/images/university4.jpeg"},
	{"Spilled coffee on your laptop during presentation", 45.0, "/images/university5.jpeg"},
	{"Lost your student ID on graduation day", 40.0, "/images/university6.jpeg"},
	{"Missed your graduation ceremony", 70.0, "/images/university7.jpeg"},
	{"Failed all courses in your final semester", 95.0, "/images/university8.jpeg"},
	{"Got locked out of dorm room naked", 60.0, "/images/university9.jpeg"},
	{"Professor caught you cheating on exam", 88.0, "/images/university10.jpeg"},
	{"Accidentally deleted your final project", 75.0, "/images/university11.jpeg"},
	{"Got food poisoning during finals week", 55.0, "/images/university12.jpeg"},
	{"Called your professor 'mom' during lecture", 15.0, "/images/university13.jpeg"},
	{"Submitted the wrong assignment file", 35.0, "/images/university14.jpeg"},
	{"Forgot about group project presentation", 65.0, "/images/university15.jpeg"},
	{"Lost your thesis the day before defense", 97.5, "/images/university16.jpeg"},
}

var loveCards = []seedCard{
	{"Accidentally sent text about date to the date", 45.0, "/images/love1.jpeg"},
	{"Met your ex at your wedding", 80.0, "/images/love2.jpeg"},
	{"Forgot your anniversary completely", 70.0, "/images/love3.jpeg"},
	{"Called your partner by wrong name", 60.0, "/images/love4.jpeg"},
	{"Parents walked in during intimate moment", 85.0, "/images/love5.jpeg"},
	{"Accidentally liked ex's photo from 2 years ago", 25.0, "/images/love6.jpeg"},
	{"Got dumped via text message", 55.0, "/images/love7.jpeg"},
	{"Date saw your embarrassing childhood photos", 30.0, "/images/love8.jpeg"},
	{"Proposed and got rejected publicly", 95.0, "/images/love9.jpeg"},
	{"Found out you're dating your friend's ex", 75.0, "/images/love10.jpeg"},
	{"Fell asleep during romantic dinner", 65.0, "/images/love11.jpeg"},
	{"Lost engagement ring in restaurant", 90.0, "/images/love12.jpeg"},
	{"Showed up to wrong restaurant for first date", 35.0, "/images/love13.jpeg"},
	{"Got caught stalking ex's social media", 40.0, "/images/love14.jpeg"},
	{"Accidentally invited two dates to same event", 87.5, "/images/love15.jpeg"},
	{"Wore same outfit on three consecutive dates", 20.0, "/images/love16.jpeg"},
}
