package repository

import (
	"context"
	"errors"
	"fmt"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/models"

	"gorm.io/gorm"
)

type JokeRepository interface {
	List(ctx context.Context, filters JokeFilters, userID string, cursorToken string) (*ListResult, error)
	GetByID(ctx context.Context, id string) (*models.Joke, error)
	Create(ctx context.Context, j *models.Joke) error
	CreateBatch(ctx context.Context, jokes []models.Joke) error
	Update(ctx context.Context, j *models.Joke) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type jokeRepository struct {
	db *gorm.DB
}

func NewJokeRepository(db *gorm.DB) JokeRepository {
	return &jokeRepository{db: db}
}

// ListResult carries one page of jokes plus the pagination contract: NextCursor
// is the sort key of the last item, HasMore is the full-page heuristic and can
// over-state availability only when the result set size is an exact multiple
// of the page size.
type ListResult struct {
	Jokes      []models.Joke
	NextCursor string
	HasMore    bool
}

// List executes the filter set. A user-scoped listing without a user id
// returns an empty result without touching the store.
func (r *jokeRepository) List(ctx context.Context, filters JokeFilters, userID string, cursorToken string) (*ListResult, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	cursor, err := DecodeCursor(cursorToken)
	if err != nil {
		return nil, err
	}

	q, ok := buildListQuery(r.db.WithContext(ctx), filters, userID, cursor)
	if !ok {
		return &ListResult{Jokes: []models.Joke{}}, nil
	}

	var list []models.Joke
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list jokes: %w", err)
	}

	res := &ListResult{Jokes: list, HasMore: len(list) == PageSize}
	if len(list) > 0 {
		last := list[len(list)-1]
		res.NextCursor = EncodeCursor(Cursor{DateAdded: last.DateAdded, ID: last.ID})
	}
	return res, nil
}

func (r *jokeRepository) GetByID(ctx context.Context, id string) (*models.Joke, error) {
	var j models.Joke
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "joke %s not found", id)
		}
		return nil, fmt.Errorf("get joke: %w", err)
	}
	return &j, nil
}

func (r *jokeRepository) Create(ctx context.Context, j *models.Joke) error {
	if err := r.db.WithContext(ctx).Create(j).Error; err != nil {
		return fmt.Errorf("create joke: %w", err)
	}
	return nil
}

// CreateBatch persists all jokes atomically as a single unit.
func (r *jokeRepository) CreateBatch(ctx context.Context, jokes []models.Joke) error {
	if len(jokes) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(jokes, 100).Error
	})
	if err != nil {
		return fmt.Errorf("create joke batch: %w", err)
	}
	return nil
}

func (r *jokeRepository) Update(ctx context.Context, j *models.Joke) error {
	if err := r.db.WithContext(ctx).Save(j).Error; err != nil {
		return fmt.Errorf("update joke: %w", err)
	}
	return nil
}

// UpdateFields applies a partial column update.
func (r *jokeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Joke{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update joke fields: %w", err)
	}
	return nil
}

func (r *jokeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Joke{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete joke: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "joke %s not found", id)
	}
	return nil
}
