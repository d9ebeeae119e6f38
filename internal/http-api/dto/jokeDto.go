package dto

import (
	"time"

	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/service"
)

// CreateJokeDTO used for POST /api/jokes
type CreateJokeDTO struct {
	Text      string `json:"text" binding:"required"`
	Category  string `json:"category" binding:"required"`
	FunnyRate *int   `json:"funny_rate,omitempty"`
}

// UpdateJokeDTO used for PATCH /api/jokes/:id (partial updates allowed)
type UpdateJokeDTO struct {
	Text      *string `json:"text,omitempty"`
	Category  *string `json:"category,omitempty"`
	Used      *bool   `json:"used,omitempty"`
	FunnyRate *int    `json:"funny_rate,omitempty"`
}

// JokeResponse DTO for responses
type JokeResponse struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Category      string    `json:"category"`
	DateAdded     time.Time `json:"date_added"`
	Used          bool      `json:"used"`
	FunnyRate     int       `json:"funny_rate"`
	UserID        string    `json:"user_id"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	RatingCount   *int64    `json:"rating_count,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
}

// Converters
func (d CreateJokeDTO) ToInput() service.CreateJokeInput {
	in := service.CreateJokeInput{
		Text:     d.Text,
		Category: d.Category,
	}
	if d.FunnyRate != nil {
		in.FunnyRate = *d.FunnyRate
	}
	return in
}

func (d UpdateJokeDTO) ToPatch() service.JokePatch {
	return service.JokePatch{
		Text:      d.Text,
		Category:  d.Category,
		Used:      d.Used,
		FunnyRate: d.FunnyRate,
	}
}

func FromModelToJokeResponse(j models.Joke) JokeResponse {
	return JokeResponse{
		ID:            j.ID,
		Text:          j.Text,
		Category:      j.Category,
		DateAdded:     j.DateAdded,
		Used:          j.Used,
		FunnyRate:     j.FunnyRate,
		UserID:        j.UserID,
		AverageRating: j.AverageRating,
		RatingCount:   j.RatingCount,
		Keywords:      j.KeywordList(),
	}
}

// PaginatedJokesResponse carries one page plus the cursor contract.
type PaginatedJokesResponse struct {
	Data       []JokeResponse `json:"data"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}
