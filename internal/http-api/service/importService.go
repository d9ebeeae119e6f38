package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"jokehub/internal/http-api/models"
	"jokehub/internal/http-api/repository"
	"jokehub/internal/importer"
)

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ImportService interface {
	// ImportBatch persists all valid rows atomically as a single batch write.
	// Invalid rows (blank text or category after trimming) are skipped and
	// counted, never fatal.
	ImportBatch(ctx context.Context, rows []importer.Row, userID string) (*ImportResult, error)
}

type importService struct {
	jokeRepo   repository.JokeRepository
	categories CategoryService
	logger     *slog.Logger
}

func NewImportService(jokeRepo repository.JokeRepository, categories CategoryService, logger *slog.Logger) ImportService {
	return &importService{jokeRepo: jokeRepo, categories: categories, logger: logger}
}

func (s *importService) ImportBatch(ctx context.Context, rows []importer.Row, userID string) (*ImportResult, error) {
	result := &ImportResult{}
	now := time.Now().UTC()

	// Resolve each distinct category once for the whole batch, so N rows with
	// the same new category cannot race N creations.
	resolved := make(map[string]string) // lowercased trimmed name -> stored name
	jokes := make([]models.Joke, 0, len(rows))

	for _, row := range rows {
		text := strings.TrimSpace(row.Text)
		category := strings.TrimSpace(row.Category)
		if text == "" || category == "" {
			s.logger.Info("skipping invalid import row", "has_text", text != "", "has_category", category != "")
			result.Skipped++
			continue
		}

		key := strings.ToLower(category)
		storedName, ok := resolved[key]
		if !ok {
			c, err := s.categories.EnsureCategoryExists(ctx, category, userID)
			if err != nil {
				return nil, err
			}
			storedName = c.Name
			resolved[key] = storedName
		}

		funnyRate := row.FunnyRate
		if funnyRate < 0 || funnyRate > 5 {
			funnyRate = 0
		}

		jokes = append(jokes, models.Joke{
			Text:      text,
			Category:  storedName,
			DateAdded: now,
			Used:      false,
			FunnyRate: funnyRate,
			UserID:    userID,
			Keywords:  models.JoinKeywords(models.ExtractKeywords(text)),
		})
	}

	if err := s.jokeRepo.CreateBatch(ctx, jokes); err != nil {
		return nil, err
	}
	result.Imported = len(jokes)

	s.logger.Info("joke batch imported", "user_id", userID, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
