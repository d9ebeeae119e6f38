package service

import (
	"context"
	"strings"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"
	"jokehub/internal/live"
)

type CategoryService interface {
	// EnsureCategoryExists returns the user's category with the given name,
	// creating it on first use. The returned record keeps the stored casing.
	EnsureCategoryExists(ctx context.Context, name, userID string) (*models.Category, error)
	GetAll(ctx context.Context, userID string) ([]models.Category, error)
	Subscribe(userID string, onUpdate func([]models.Category), onError func(error)) (unsubscribe func())
}

type categoryService struct {
	repo repository.CategoryRepository
	hub  *live.Hub
}

func NewCategoryService(repo repository.CategoryRepository, hub *live.Hub) CategoryService {
	return &categoryService{repo: repo, hub: hub}
}

func (s *categoryService) EnsureCategoryExists(ctx context.Context, name, userID string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.KindValidation, "category name required")
	}

	c, created, err := s.repo.GetOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if created && s.hub != nil {
		s.hub.NotifyChanged(ctx, userID)
	}
	return c, nil
}

func (s *categoryService) GetAll(ctx context.Context, userID string) ([]models.Category, error) {
	return s.repo.GetAll(ctx, userID)
}

func (s *categoryService) Subscribe(userID string, onUpdate func([]models.Category), onError func(error)) func() {
	return s.hub.Subscribe(userID, onUpdate, onError)
}
