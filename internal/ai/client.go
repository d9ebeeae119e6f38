// Package ai talks to the external text-generation API (an OpenAI-compatible
// chat completions endpoint). Calls are best-effort: provider failures come
// back as transport errors and are never retried here.
package ai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jokehub/internal/apperrors"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http  *resty.Client
	model string
}

func NewClient(baseURL, apiKey, defaultModel string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c, model: defaultModel}
}

type GeneratedJoke struct {
	JokeText string `json:"jokeText"`
	Category string `json:"category"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const generateSystemPrompt = `You are a joke writer. Respond with a single JSON object of the form ` +
	`{"jokeText": "...", "category": "..."} and nothing else.`

// GenerateJoke asks the provider for a new joke. prefilledJokes are existing
// jokes the provider should not repeat.
func (c *Client) GenerateJoke(ctx context.Context, topicHint string, prefilledJokes []string, model string) (*GeneratedJoke, error) {
	if model == "" {
		model = c.model
	}

	var user strings.Builder
	user.WriteString("Write one short joke.")
	if topicHint != "" {
		fmt.Fprintf(&user, " Topic: %s.", topicHint)
	}
	if len(prefilledJokes) > 0 {
		user.WriteString(" Do not repeat any of these jokes:\n")
		for _, j := range prefilledJokes {
			fmt.Fprintf(&user, "- %s\n", j)
		}
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: model,
			Messages: []chatMessage{
				{Role: "system", Content: generateSystemPrompt},
				{Role: "user", Content: user.String()},
			},
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransport, "joke generation request failed", err)
	}
	if resp.IsError() {
		return nil, apperrors.Newf(apperrors.KindTransport, "joke generation failed: provider returned %s", resp.Status())
	}
	if len(out.Choices) == 0 {
		return nil, apperrors.New(apperrors.KindTransport, "joke generation failed: empty provider response")
	}

	joke, err := parseGeneratedJoke(out.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return joke, nil
}

// parseGeneratedJoke decodes the provider's JSON payload, tolerating markdown
// code fences around it. A plain-text reply becomes the joke itself.
func parseGeneratedJoke(content string) (*GeneratedJoke, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var joke GeneratedJoke
	if err := json.Unmarshal([]byte(trimmed), &joke); err == nil && joke.JokeText != "" {
		if joke.Category == "" {
			joke.Category = "General"
		}
		return &joke, nil
	}
	if trimmed == "" {
		return nil, apperrors.New(apperrors.KindTransport, "joke generation failed: blank provider response")
	}
	return &GeneratedJoke{JokeText: trimmed, Category: "General"}, nil
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ExplainJoke streams the provider's explanation, invoking emit once per text
// chunk as it arrives. Returning an error from emit stops the stream.
func (c *Client) ExplainJoke(ctx context.Context, jokeText string, model string, emit func(chunk string) error) error {
	if model == "" {
		model = c.model
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetBody(chatRequest{
			Model:  model,
			Stream: true,
			Messages: []chatMessage{
				{Role: "system", Content: "Explain why the given joke is funny, in plain prose."},
				{Role: "user", Content: jokeText},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return apperrors.Wrap(apperrors.KindTransport, "joke explanation request failed", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return apperrors.Newf(apperrors.KindTransport, "joke explanation failed: provider returned %s", resp.Status())
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := emit(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return apperrors.Wrap(apperrors.KindTransport, "joke explanation stream broken", err)
	}
	return nil
}
