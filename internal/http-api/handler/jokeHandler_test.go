package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jokehub/internal/apperrors"
	"jokehub/internal/http-api/handler"
	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"
	"jokehub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- MOCK SERVICE ---

type MockJokeService struct {
	mock.Mock
}

func (m *MockJokeService) Create(ctx context.Context, input service.CreateJokeInput, userID string) (*models.Joke, error) {
	args := m.Called(ctx, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeService) Update(ctx context.Context, id string, patch service.JokePatch, userID string) (*models.Joke, error) {
	args := m.Called(ctx, id, patch, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeService) ToggleUsed(ctx context.Context, id, userID string) (*models.Joke, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeService) Rate(ctx context.Context, id string, rating int, userID string) (*models.Joke, error) {
	args := m.Called(ctx, id, rating, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockJokeService) GetByID(ctx context.Context, id string) (*models.Joke, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Joke), args.Error(1)
}

func (m *MockJokeService) List(ctx context.Context, filters repository.JokeFilters, userID, cursor string) (*repository.ListResult, error) {
	args := m.Called(ctx, filters, userID, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListResult), args.Error(1)
}

// --- SETUP ---

func mockAuthMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func setupJokeRouter(mockService *MockJokeService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewJokeHandler(mockService)

	public := r.Group("/api/jokes")
	public.Use(mockAuthMiddleware(userID))
	authed := r.Group("/api/jokes")
	authed.Use(mockAuthMiddleware(userID))
	h.RegisterRoutes(public, authed)
	return r
}

// --- TESTS ---

func TestJokeHandler_List(t *testing.T) {
	t.Run("DefaultsAndMapping", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "")

		wantFilters := repository.JokeFilters{
			Scope:           repository.ScopePublic,
			FilterFunnyRate: -1,
			UsageStatus:     repository.UsageAll,
		}
		mockService.On("List", mock.Anything, wantFilters, "", "").
			Return(&repository.ListResult{
				Jokes: []models.Joke{
					{ID: "j1", Text: "one", Category: "Puns", DateAdded: time.Now().UTC()},
				},
				NextCursor: "abc",
				HasMore:    false,
			}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/jokes", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].([]interface{})
		assert.Len(t, data, 1)
		assert.Equal(t, "abc", resp["next_cursor"])
		assert.Equal(t, false, resp["has_more"])
		mockService.AssertExpectations(t)
	})

	t.Run("QueryParamsParsed", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		wantFilters := repository.JokeFilters{
			Scope:              repository.ScopeUser,
			SelectedCategories: []string{"Puns", "Animals"},
			FilterFunnyRate:    3,
			UsageStatus:        repository.UsageUnused,
			Search:             "chicken",
		}
		mockService.On("List", mock.Anything, wantFilters, "u1", "tok").
			Return(&repository.ListResult{Jokes: []models.Joke{}}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet,
			"/api/jokes?scope=user&categories=Puns,%20Animals&funny_rate=3&usage=unused&q=chicken&cursor=tok", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationErrorIs400", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "")

		mockService.On("List", mock.Anything, mock.Anything, "", "").
			Return(nil, apperrors.New(apperrors.KindValidation, "too many categories")).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/jokes", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BadFunnyRateParam", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "")

		req, _ := http.NewRequest(http.MethodGet, "/api/jokes?funny_rate=banana", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestJokeHandler_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "")

		mockService.On("GetByID", mock.Anything, "j1").
			Return(&models.Joke{ID: "j1", Text: "one"}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/jokes/j1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "j1", resp["id"])
	})

	t.Run("MissingIs404", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "")

		mockService.On("GetByID", mock.Anything, "nope").Return(nil, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/jokes/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJokeHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		mockService.On("Create", mock.Anything,
			service.CreateJokeInput{Text: "a joke", Category: "Puns"}, "u1").
			Return(&models.Joke{ID: "j1", Text: "a joke", Category: "Puns", UserID: "u1"}, nil).Once()

		body, _ := json.Marshal(map[string]string{"text": "a joke", "category": "Puns"})
		req, _ := http.NewRequest(http.MethodPost, "/api/jokes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFieldsIs400", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		body, _ := json.Marshal(map[string]string{"text": "no category"})
		req, _ := http.NewRequest(http.MethodPost, "/api/jokes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestJokeHandler_Update(t *testing.T) {
	t.Run("PermissionErrorIs403", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "intruder")

		mockService.On("Update", mock.Anything, "j1", mock.Anything, "intruder").
			Return(nil, apperrors.New(apperrors.KindPermission, "joke belongs to another user")).Once()

		body, _ := json.Marshal(map[string]string{"text": "hijack"})
		req, _ := http.NewRequest(http.MethodPatch, "/api/jokes/j1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NotFoundIs404", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		mockService.On("Update", mock.Anything, "nope", mock.Anything, "u1").
			Return(nil, apperrors.New(apperrors.KindNotFound, "joke nope not found")).Once()

		body, _ := json.Marshal(map[string]string{"text": "x"})
		req, _ := http.NewRequest(http.MethodPatch, "/api/jokes/nope", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJokeHandler_Delete(t *testing.T) {
	mockService := new(MockJokeService)
	r := setupJokeRouter(mockService, "u1")

	mockService.On("Delete", mock.Anything, "j1", "u1").Return(nil).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/jokes/j1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestJokeHandler_ToggleUsed(t *testing.T) {
	mockService := new(MockJokeService)
	r := setupJokeRouter(mockService, "u1")

	mockService.On("ToggleUsed", mock.Anything, "j1", "u1").
		Return(&models.Joke{ID: "j1", UserID: "u1", Used: true}, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/jokes/j1/used", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["used"])
}

func TestJokeHandler_Rate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		mockService.On("Rate", mock.Anything, "j1", 4, "u1").
			Return(&models.Joke{ID: "j1", UserID: "u1", FunnyRate: 4}, nil).Once()

		body, _ := json.Marshal(map[string]int{"funny_rate": 4})
		req, _ := http.NewRequest(http.MethodPost, "/api/jokes/j1/funny-rate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingBodyIs400", func(t *testing.T) {
		mockService := new(MockJokeService)
		r := setupJokeRouter(mockService, "u1")

		req, _ := http.NewRequest(http.MethodPost, "/api/jokes/j1/funny-rate", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Rate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
