package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Joke struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Text      string    `json:"text" gorm:"not null;type:text"`
	Category  string    `json:"category" gorm:"not null;index"`
	DateAdded time.Time `json:"date_added" gorm:"not null;index:idx_jokes_date_added,sort:desc"`
	Used      bool      `json:"used" gorm:"default:false"`
	// Owner's quick rating. 0 means unrated.
	FunnyRate int    `json:"funny_rate" gorm:"default:0;check:funny_rate >= 0 AND funny_rate <= 5"`
	UserID    string `json:"user_id" gorm:"type:uuid;not null;index"`

	// Derived from jokeRatings, recomputed on every rating write.
	AverageRating *float64 `json:"average_rating,omitempty" gorm:"type:decimal(3,1)"`
	RatingCount   *int64   `json:"rating_count,omitempty"`

	// Space-joined lowercase search tokens derived from Text.
	Keywords string `json:"-" gorm:"type:text"`
}

// BeforeCreate hook to set UUID before creating a Joke
func (j *Joke) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return
}

// KeywordList splits the stored keyword column back into tokens.
func (j *Joke) KeywordList() []string {
	if j.Keywords == "" {
		return nil
	}
	return strings.Fields(j.Keywords)
}

func (Joke) TableName() string {
	return "jokes"
}
