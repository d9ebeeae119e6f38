package repository

import (
	"context"
	"errors"
	"fmt"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	GetAll(ctx context.Context, userID string) ([]models.Category, error)
	FindByName(ctx context.Context, userID, name string) (*models.Category, error)
	GetOrCreate(ctx context.Context, userID, name string) (*models.Category, bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetAll(ctx context.Context, userID string) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return list, nil
}

// FindByName matches case-insensitively; the stored casing wins.
func (r *categoryRepository) FindByName(ctx context.Context, userID, name string) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "category %q not found", name)
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// GetOrCreate returns the existing category for the (case-insensitively)
// matching name or creates one; the bool reports whether a create happened.
// Concurrent first-time creation is resolved by the unique index on
// (user_id, LOWER(name)): the loser of the race re-reads the winner's row
// instead of duplicating it.
func (r *categoryRepository) GetOrCreate(ctx context.Context, userID, name string) (*models.Category, bool, error) {
	existing, err := r.FindByName(ctx, userID, name)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, err
	}

	c := &models.Category{Name: name, UserID: userID}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, err := r.FindByName(ctx, userID, name)
			return winner, false, err
		}
		return nil, false, fmt.Errorf("create category: %w", err)
	}
	return c, true, nil
}
