package service

import (
	"context"

	"jokehub/internal/ai"
)

// GenerationService fronts the external text-generation API.
type GenerationService interface {
	GenerateJoke(ctx context.Context, topicHint string, prefilledJokes []string, model string) (*ai.GeneratedJoke, error)
	ExplainJoke(ctx context.Context, jokeText, model string, emit func(chunk string) error) error
}

type generationService struct {
	client *ai.Client
}

func NewGenerationService(client *ai.Client) GenerationService {
	return &generationService{client: client}
}

func (s *generationService) GenerateJoke(ctx context.Context, topicHint string, prefilledJokes []string, model string) (*ai.GeneratedJoke, error) {
	return s.client.GenerateJoke(ctx, topicHint, prefilledJokes, model)
}

func (s *generationService) ExplainJoke(ctx context.Context, jokeText, model string, emit func(chunk string) error) error {
	return s.client.ExplainJoke(ctx, jokeText, model, emit)
}
