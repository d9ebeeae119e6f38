package dto

// GenerateJokeDTO is the body of POST /api/generate-joke
type GenerateJokeDTO struct {
	TopicHint      string   `json:"topicHint,omitempty"`
	PrefilledJokes []string `json:"prefilledJokes,omitempty" binding:"max=50"`
	Model          string   `json:"model,omitempty"`
}

// GenerateJokeResponse mirrors the provider result
type GenerateJokeResponse struct {
	JokeText string `json:"jokeText"`
	Category string `json:"category"`
}

// ExplainJokeDTO is the body of POST /api/explain-joke
type ExplainJokeDTO struct {
	JokeText string `json:"jokeText" binding:"required"`
	Model    string `json:"model,omitempty"`
}
