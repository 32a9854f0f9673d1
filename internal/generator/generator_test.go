package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/interview-server/internal/service"
)

func TestParseChallenge(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		got, err := parseChallenge(`{
			"recommendedTopics": ["React rendering", "Hook dependencies"],
			"dailyChallenge": {
				"title": "Refactor a component",
				"description": "Split a tangled component into hooks.",
				"difficulty": "medium"
			}
		}`)

		require.NoError(t, err)
		assert.Equal(t, []string{"React rendering", "Hook dependencies"}, got.RecommendedTopics)
		assert.Equal(t, "Refactor a component", got.Challenge.Title)
		assert.Equal(t, "medium", got.Challenge.Difficulty)
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		got, err := parseChallenge("```json\n{\"recommendedTopics\":[],\"dailyChallenge\":{\"title\":\"T\",\"description\":\"D\",\"difficulty\":\"easy\"}}\n```")

		require.NoError(t, err)
		assert.Equal(t, "T", got.Challenge.Title)
	})

	t.Run("unknown difficulty falls back to medium", func(t *testing.T) {
		got, err := parseChallenge(`{"dailyChallenge":{"title":"T","description":"D","difficulty":"brutal"}}`)

		require.NoError(t, err)
		assert.Equal(t, "medium", got.Challenge.Difficulty)
	})

	t.Run("difficulty is case-insensitive", func(t *testing.T) {
		got, err := parseChallenge(`{"dailyChallenge":{"title":"T","description":"D","difficulty":"Hard"}}`)

		require.NoError(t, err)
		assert.Equal(t, "hard", got.Challenge.Difficulty)
	})

	t.Run("nil topics normalized to empty", func(t *testing.T) {
		got, err := parseChallenge(`{"dailyChallenge":{"title":"T","description":"D","difficulty":"easy"}}`)

		require.NoError(t, err)
		assert.NotNil(t, got.RecommendedTopics)
		assert.Empty(t, got.RecommendedTopics)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		_, err := parseChallenge(`{"dailyChallenge":{"description":"D","difficulty":"easy"}}`)
		assert.Error(t, err)
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		_, err := parseChallenge("not json at all")
		assert.Error(t, err)
	})
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt([]service.WeakTopic{
		{Topic: "React", Frequency: 3, Recommendation: "Practice React component lifecycle and hooks"},
		{Topic: "Caching", Frequency: 1, Recommendation: "Review caching strategies"},
	})

	assert.Contains(t, prompt, "React (seen 3 times)")
	assert.Contains(t, prompt, "Caching (seen 1 times)")
	assert.Contains(t, prompt, `"dailyChallenge"`)
	assert.True(t, strings.Contains(prompt, "JSON only"))
}

func TestStaticGenerate(t *testing.T) {
	ctx := context.Background()
	gen := NewStatic()

	t.Run("no topics", func(t *testing.T) {
		got, err := gen.Generate(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "Daily Practice Session", got.Challenge.Title)
		assert.Equal(t, "easy", got.Challenge.Difficulty)
		assert.NotNil(t, got.RecommendedTopics)
	})

	t.Run("topics drive title and difficulty", func(t *testing.T) {
		got, err := gen.Generate(ctx, []service.WeakTopic{
			{Topic: "Concurrency", Frequency: 6, Recommendation: "Practice concurrent programming patterns"},
			{Topic: "Testing", Frequency: 2, Recommendation: "Practice writing unit tests"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Focus on Concurrency", got.Challenge.Title)
		assert.Equal(t, "hard", got.Challenge.Difficulty)
		assert.Equal(t, []string{"Concurrency", "Testing"}, got.RecommendedTopics)
		assert.Contains(t, got.Challenge.Description, "Practice concurrent programming patterns")
	})

	t.Run("difficulty scale", func(t *testing.T) {
		assert.Equal(t, "easy", difficultyFor(1))
		assert.Equal(t, "medium", difficultyFor(2))
		assert.Equal(t, "medium", difficultyFor(4))
		assert.Equal(t, "hard", difficultyFor(5))
	})
}
