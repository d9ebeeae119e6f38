package service

import (
	"context"
	"strings"
	"time"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"
)

// CreateJokeInput is the caller-supplied part of a new joke.
type CreateJokeInput struct {
	Text      string
	Category  string
	FunnyRate int
}

// JokePatch is a partial update; nil fields are left untouched.
type JokePatch struct {
	Text      *string
	Category  *string
	Used      *bool
	FunnyRate *int
}

func (p JokePatch) empty() bool {
	return p.Text == nil && p.Category == nil && p.Used == nil && p.FunnyRate == nil
}

type JokeService interface {
	Create(ctx context.Context, input CreateJokeInput, userID string) (*models.Joke, error)
	Update(ctx context.Context, id string, patch JokePatch, userID string) (*models.Joke, error)
	ToggleUsed(ctx context.Context, id, userID string) (*models.Joke, error)
	Rate(ctx context.Context, id string, rating int, userID string) (*models.Joke, error)
	Delete(ctx context.Context, id, userID string) error
	// GetByID returns (nil, nil) when the joke does not exist.
	GetByID(ctx context.Context, id string) (*models.Joke, error)
	List(ctx context.Context, filters repository.JokeFilters, userID, cursor string) (*repository.ListResult, error)
}

type jokeService struct {
	repo       repository.JokeRepository
	categories CategoryService
}

func NewJokeService(repo repository.JokeRepository, categories CategoryService) JokeService {
	return &jokeService{repo: repo, categories: categories}
}

func (s *jokeService) Create(ctx context.Context, input CreateJokeInput, userID string) (*models.Joke, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apperrors.New(apperrors.KindValidation, "joke text required")
	}
	if input.FunnyRate < 0 || input.FunnyRate > 5 {
		return nil, apperrors.Newf(apperrors.KindValidation, "funny rate out of range: %d", input.FunnyRate)
	}

	category, err := s.categories.EnsureCategoryExists(ctx, input.Category, userID)
	if err != nil {
		return nil, err
	}

	j := &models.Joke{
		Text:      text,
		Category:  category.Name,
		DateAdded: time.Now().UTC(),
		Used:      false,
		FunnyRate: input.FunnyRate,
		UserID:    userID,
		Keywords:  models.JoinKeywords(models.ExtractKeywords(text)),
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *jokeService) Update(ctx context.Context, id string, patch JokePatch, userID string) (*models.Joke, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.New(apperrors.KindPermission, "joke belongs to another user")
	}
	if patch.empty() {
		// no recognized field contributed; nothing to write
		return existing, nil
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperrors.New(apperrors.KindValidation, "joke text required")
		}
		existing.Text = text
		existing.Keywords = models.JoinKeywords(models.ExtractKeywords(text))
	}
	if patch.Category != nil {
		category, err := s.categories.EnsureCategoryExists(ctx, *patch.Category, userID)
		if err != nil {
			return nil, err
		}
		existing.Category = category.Name
	}
	if patch.Used != nil {
		existing.Used = *patch.Used
	}
	if patch.FunnyRate != nil {
		if *patch.FunnyRate < 0 || *patch.FunnyRate > 5 {
			return nil, apperrors.Newf(apperrors.KindValidation, "funny rate out of range: %d", *patch.FunnyRate)
		}
		existing.FunnyRate = *patch.FunnyRate
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *jokeService) ToggleUsed(ctx context.Context, id, userID string) (*models.Joke, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.New(apperrors.KindPermission, "joke belongs to another user")
	}

	existing.Used = !existing.Used
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"used": existing.Used}); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *jokeService) Rate(ctx context.Context, id string, rating int, userID string) (*models.Joke, error) {
	if rating < 0 || rating > 5 {
		return nil, apperrors.Newf(apperrors.KindValidation, "funny rate out of range: %d", rating)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.New(apperrors.KindPermission, "joke belongs to another user")
	}

	existing.FunnyRate = rating
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"funny_rate": rating}); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *jokeService) Delete(ctx context.Context, id, userID string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.New(apperrors.KindPermission, "joke belongs to another user")
	}
	return s.repo.Delete(ctx, id)
}

func (s *jokeService) GetByID(ctx context.Context, id string) (*models.Joke, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return j, nil
}

func (s *jokeService) List(ctx context.Context, filters repository.JokeFilters, userID, cursor string) (*repository.ListResult, error) {
	return s.repo.List(ctx, filters, userID, cursor)
}
