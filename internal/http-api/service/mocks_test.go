package service

import (
	"context"

	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// --- MOCK REPOSITORIES ---

type MockJokeRepository struct {
	mock.Mock
}

func (m *MockJokeRepository) List(ctx context.Context, filters repository.JokeFilters, userID string, cursorToken string) (*repository.ListResult, error) {
	args := m.Called(ctx, filters, userID, cursorToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListResult), args.Error(1)
}

func (m *MockJokeRepository) GetByID(ctx context.Context, id string) (*models.Joke, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeRepository) Create(ctx context.Context, j *models.Joke) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJokeRepository) CreateBatch(ctx context.Context, jokes []models.Joke) error {
	args := m.Called(ctx, jokes)
	return args.Error(0)
}

func (m *MockJokeRepository) Update(ctx context.Context, j *models.Joke) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJokeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockJokeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context, userID string) ([]models.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, userID, name string) (*models.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetOrCreate(ctx context.Context, userID, name string) (*models.Category, bool, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Category), args.Bool(1), args.Error(2)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Submit(ctx context.Context, jokeID, userID string, ratingValue int, comment *string) (*models.JokeRating, error) {
	args := m.Called(ctx, jokeID, userID, ratingValue, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JokeRating), args.Error(1)
}

func (m *MockRatingRepository) GetByJokeAndUser(ctx context.Context, jokeID, userID string) (*models.JokeRating, error) {
	args := m.Called(ctx, jokeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JokeRating), args.Error(1)
}

func (m *MockRatingRepository) GetByJoke(ctx context.Context, jokeID string) ([]models.JokeRating, error) {
	args := m.Called(ctx, jokeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JokeRating), args.Error(1)
}

// --- MOCK CATEGORY SERVICE ---

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) EnsureCategoryExists(ctx context.Context, name, userID string) (*models.Category, error) {
	args := m.Called(ctx, name, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) GetAll(ctx context.Context, userID string) ([]models.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) Subscribe(userID string, onUpdate func([]models.Category), onError func(error)) func() {
	args := m.Called(userID, onUpdate, onError)
	return args.Get(0).(func())
}
