package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedJoke(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		joke, err := parseGeneratedJoke(`{"jokeText": "Why did the scarecrow win an award?", "category": "Puns"}`)
		require.NoError(t, err)
		assert.Equal(t, "Why did the scarecrow win an award?", joke.JokeText)
		assert.Equal(t, "Puns", joke.Category)
	})

	t.Run("FencedJSON", func(t *testing.T) {
		joke, err := parseGeneratedJoke("```json\n{\"jokeText\": \"fenced\", \"category\": \"Meta\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "fenced", joke.JokeText)
		assert.Equal(t, "Meta", joke.Category)
	})

	t.Run("MissingCategoryDefaults", func(t *testing.T) {
		joke, err := parseGeneratedJoke(`{"jokeText": "no category here"}`)
		require.NoError(t, err)
		assert.Equal(t, "General", joke.Category)
	})

	t.Run("PlainTextBecomesJoke", func(t *testing.T) {
		joke, err := parseGeneratedJoke("The provider just told a joke directly.")
		require.NoError(t, err)
		assert.Equal(t, "The provider just told a joke directly.", joke.JokeText)
		assert.Equal(t, "General", joke.Category)
	})

	t.Run("BlankResponse", func(t *testing.T) {
		_, err := parseGeneratedJoke("   ")
		assert.Error(t, err)
	})
}
