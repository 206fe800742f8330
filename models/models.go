package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Movie is a single catalog entry. Title is the user-facing key: unique,
// non-empty, and never changed after creation.
type Movie struct {
	gorm.Model
	Title     string `gorm:"uniqueIndex;not null"`
	Year      int
	Rating    float64
	PosterURL string
	Note      string
	ImdbID    string
}

func (m Movie) GetTitle() string {
	return m.Title
}

// String renders the movie the way the menu lists it.
func (m Movie) String() string {
	return fmt.Sprintf("%s (%d) - %.1f/10", m.Title, m.Year, m.Rating)
}

// ImdbURL returns the IMDb page for the movie, or "" when no id is known.
func (m Movie) ImdbURL() string {
	if m.ImdbID == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + m.ImdbID
}
