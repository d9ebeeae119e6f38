package dto

import (
	"time"

	"jokehub/internal/http-api/models"
)

// CreateRatingDTO for creating or updating a user rating
type CreateRatingDTO struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse for returning rating information
type RatingResponse struct {
	ID          string    `json:"id"`
	JokeID      string    `json:"joke_id"`
	UserID      string    `json:"user_id"`
	RatingValue int       `json:"rating_value"`
	Comment     *string   `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a JokeRating model to RatingResponse DTO
func FromModelToRatingResponse(r *models.JokeRating) *RatingResponse {
	return &RatingResponse{
		ID:          r.ID,
		JokeID:      r.JokeID,
		UserID:      r.UserID,
		RatingValue: r.RatingValue,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
