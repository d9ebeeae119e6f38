package repository

import (
	"context"
	"errors"
	"fmt"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Submit(ctx context.Context, jokeID, userID string, ratingValue int, comment *string) (*models.JokeRating, error)
	GetByJokeAndUser(ctx context.Context, jokeID, userID string) (*models.JokeRating, error)
	GetByJoke(ctx context.Context, jokeID string) ([]models.JokeRating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Submit upserts the caller's rating for a joke and recomputes the joke's
// denormalized average_rating/rating_count in the same transaction, so the
// aggregate can never drift from the rating rows. At most one rating exists
// per (joke_id, user_id): the unique index turns a concurrent double-create
// into a duplicate-key error, which is resolved by re-reading and updating.
func (r *ratingRepository) Submit(ctx context.Context, jokeID, userID string, ratingValue int, comment *string) (*models.JokeRating, error) {
	var out *models.JokeRating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.JokeRating
		err := tx.Where("joke_id = ? AND user_id = ?", jokeID, userID).First(&existing).Error
		switch {
		case err == nil:
			existing.RatingValue = ratingValue
			existing.Comment = comment
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("update rating: %w", err)
			}
			out = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := &models.JokeRating{
				JokeID:      jokeID,
				UserID:      userID,
				RatingValue: ratingValue,
				Comment:     comment,
			}
			if err := tx.Create(rating).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("create rating: %w", err)
				}
				// Lost a concurrent first-rating race; update the winner's row.
				if err := tx.Where("joke_id = ? AND user_id = ?", jokeID, userID).First(rating).Error; err != nil {
					return fmt.Errorf("reload rating after conflict: %w", err)
				}
				rating.RatingValue = ratingValue
				rating.Comment = comment
				if err := tx.Save(rating).Error; err != nil {
					return fmt.Errorf("update rating after conflict: %w", err)
				}
			}
			out = rating
		default:
			return fmt.Errorf("lookup rating: %w", err)
		}

		return recomputeJokeAggregates(tx, jokeID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ratingRepository) GetByJokeAndUser(ctx context.Context, jokeID, userID string) (*models.JokeRating, error) {
	var rating models.JokeRating
	err := r.db.WithContext(ctx).Where("joke_id = ? AND user_id = ?", jokeID, userID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "rating not found")
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rating, nil
}

func (r *ratingRepository) GetByJoke(ctx context.Context, jokeID string) ([]models.JokeRating, error) {
	var ratings []models.JokeRating
	err := r.db.WithContext(ctx).
		Where("joke_id = ?", jokeID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("get ratings for joke: %w", err)
	}
	return ratings, nil
}

func recomputeJokeAggregates(tx *gorm.DB, jokeID string) error {
	var agg struct {
		Average float64
		Count   int64
	}
	err := tx.Model(&models.JokeRating{}).
		Select("COALESCE(ROUND(AVG(rating_value)::numeric, 1), 0) as average, COUNT(*) as count").
		Where("joke_id = ?", jokeID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	return tx.Model(&models.Joke{}).Where("id = ?", jokeID).Updates(map[string]interface{}{
		"average_rating": agg.Average,
		"rating_count":   agg.Count,
	}).Error
}
