package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JokeRating struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	JokeID      string    `json:"joke_id" gorm:"type:uuid;not null;uniqueIndex:idx_joke_ratings_joke_user"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_joke_ratings_joke_user"`
	RatingValue int       `json:"rating_value" gorm:"not null;check:rating_value >= 1 AND rating_value <= 5"`
	Comment     *string   `json:"comment,omitempty" gorm:"size:1000"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (r *JokeRating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (JokeRating) TableName() string {
	return "jokeRatings"
}
