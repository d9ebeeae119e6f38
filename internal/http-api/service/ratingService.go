package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"jokehub/internal/apperrors"
	"jokehub/internal/cache"
	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"
)

type RatingService interface {
	SubmitUserRating(ctx context.Context, jokeID string, ratingValue int, userID, comment string) (*models.JokeRating, error)
	GetJokeRatings(ctx context.Context, jokeID string) ([]models.JokeRating, error)
	// GetUserRating returns the caller's own rating, NotFound when absent.
	GetUserRating(ctx context.Context, jokeID, userID string) (*models.JokeRating, error)
	GetJokeAverageRating(ctx context.Context, jokeID string) (float64, int64, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	jokeRepo   repository.JokeRepository
	summaries  *cache.RatingSummaryCache
	logger     *slog.Logger
}

func NewRatingService(ratingRepo repository.RatingRepository, jokeRepo repository.JokeRepository, summaries *cache.RatingSummaryCache, logger *slog.Logger) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		jokeRepo:   jokeRepo,
		summaries:  summaries,
		logger:     logger,
	}
}

// SubmitUserRating upserts the caller's rating for a joke. A whitespace-only
// comment is stored as absent.
func (s *ratingService) SubmitUserRating(ctx context.Context, jokeID string, ratingValue int, userID, comment string) (*models.JokeRating, error) {
	if ratingValue < 1 || ratingValue > 5 {
		return nil, apperrors.Newf(apperrors.KindValidation, "rating must be between 1 and 5, got %d", ratingValue)
	}

	var commentPtr *string
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		if utf8.RuneCountInString(trimmed) > 1000 {
			return nil, apperrors.New(apperrors.KindValidation, "comment exceeds 1000 characters")
		}
		commentPtr = &trimmed
	}

	// Check the joke exists before writing
	if _, err := s.jokeRepo.GetByID(ctx, jokeID); err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.Submit(ctx, jokeID, userID, ratingValue, commentPtr)
	if err != nil {
		return nil, err
	}

	if err := s.summaries.Invalidate(ctx, jokeID); err != nil {
		s.logger.Warn("rating summary invalidation failed", "joke_id", jokeID, "error", err)
	}
	return rating, nil
}

func (s *ratingService) GetJokeRatings(ctx context.Context, jokeID string) ([]models.JokeRating, error) {
	if _, err := s.jokeRepo.GetByID(ctx, jokeID); err != nil {
		return nil, err
	}
	return s.ratingRepo.GetByJoke(ctx, jokeID)
}

func (s *ratingService) GetUserRating(ctx context.Context, jokeID, userID string) (*models.JokeRating, error) {
	return s.ratingRepo.GetByJokeAndUser(ctx, jokeID, userID)
}

// GetJokeAverageRating reduces over the joke's ratings (mean rounded to one
// decimal) with a redis cache in front.
func (s *ratingService) GetJokeAverageRating(ctx context.Context, jokeID string) (float64, int64, error) {
	if summary, ok := s.summaries.Get(ctx, jokeID); ok {
		return summary.AverageRating, summary.RatingCount, nil
	}

	if _, err := s.jokeRepo.GetByID(ctx, jokeID); err != nil {
		return 0, 0, err
	}

	ratings, err := s.ratingRepo.GetByJoke(ctx, jokeID)
	if err != nil {
		return 0, 0, err
	}

	avg, count := ReduceRatings(ratings)
	if err := s.summaries.Set(ctx, jokeID, cache.RatingSummary{AverageRating: avg, RatingCount: count}); err != nil {
		s.logger.Warn("rating summary cache write failed", "joke_id", jokeID, "error", err)
	}
	return avg, count, nil
}

// ReduceRatings computes the arithmetic mean of the rating values, rounded to
// one decimal, and the rating count.
func ReduceRatings(ratings []models.JokeRating) (float64, int64) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.RatingValue
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*10) / 10, int64(len(ratings))
}
