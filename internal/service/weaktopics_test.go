package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

func scoreOf(v float64) *float64 {
	return &v
}

func TestDetectWeakTopicsEmptyInput(t *testing.T) {
	topics := DetectWeakTopics(nil, weakTopicStatsLimit)

	require.Len(t, topics, 1, "sentinel must be exactly one entry")
	assert.Equal(t, "No patterns detected yet", topics[0].Topic)
	assert.Equal(t, 0, topics[0].Frequency)
	assert.Equal(t, "Complete more interviews to identify weak areas", topics[0].Recommendation)
}

func TestDetectWeakTopicsNoKeywordMatches(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(3), Weaknesses: "was very nervous and talked too fast"},
	}

	topics := DetectWeakTopics(evals, weakTopicStatsLimit)

	require.Len(t, topics, 1)
	assert.Equal(t, 0, topics[0].Frequency)
}

func TestDetectWeakTopicsSurfacesKeywords(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(4), Weaknesses: "React hooks are confusing"},
	}

	topics := DetectWeakTopics(evals, weakTopicStatsLimit)

	require.Len(t, topics, 2)
	names := []string{topics[0].Topic, topics[1].Topic}
	assert.Contains(t, names, "React")
	assert.Contains(t, names, "Hooks")
	for _, topic := range topics {
		assert.GreaterOrEqual(t, topic.Frequency, 1)
	}
}

func TestDetectWeakTopicsScoreFilter(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(9), Weaknesses: "recursion and graphs need work"},
		{Score: scoreOf(7), Weaknesses: "recursion again"},
		{Score: nil, Weaknesses: "recursion everywhere"},
		{Score: scoreOf(6.5), Weaknesses: "struggled with recursion"},
	}

	topics := DetectWeakTopics(evals, weakTopicStatsLimit)

	require.Len(t, topics, 1)
	assert.Equal(t, "Recursion", topics[0].Topic)
	assert.Equal(t, 1, topics[0].Frequency, "only the score < 7 evaluation counts")
}

func TestDetectWeakTopicsFrequencyRanking(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(3), Weaknesses: "weak on recursion, recursion basics, and graphs"},
		{Score: scoreOf(4), Weaknesses: "recursion again; graphs traversal shaky"},
		{Score: scoreOf(5), Weaknesses: "caching strategy unclear"},
	}

	topics := DetectWeakTopics(evals, 10)

	require.Len(t, topics, 3)
	assert.Equal(t, "Recursion", topics[0].Topic)
	assert.Equal(t, 3, topics[0].Frequency)
	assert.Equal(t, "Graphs", topics[1].Topic)
	assert.Equal(t, 2, topics[1].Frequency)
	assert.Equal(t, "Caching", topics[2].Topic)
	assert.Equal(t, 1, topics[2].Frequency)
}

func TestDetectWeakTopicsVocabularyOrderBreaksTies(t *testing.T) {
	// Both topics appear once; "caching" precedes "graphs" in the
	// vocabulary, so it wins the tie regardless of text order.
	evals := []models.Evaluation{
		{Score: scoreOf(4), Weaknesses: "graphs were hard, caching too"},
	}

	topics := DetectWeakTopics(evals, 10)

	require.Len(t, topics, 2)
	assert.Equal(t, "Caching", topics[0].Topic)
	assert.Equal(t, "Graphs", topics[1].Topic)
}

func TestDetectWeakTopicsLimit(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(2), Weaknesses: "react hooks redux javascript typescript angular python"},
	}

	assert.Len(t, DetectWeakTopics(evals, weakTopicStatsLimit), 3)
	assert.Len(t, DetectWeakTopics(evals, weakTopicGenerationLimit), 5)
}

func TestDetectWeakTopicsShortTokensIgnored(t *testing.T) {
	// "tree" (4 chars) must not match "trees"; short noise is dropped
	// before vocabulary lookup.
	evals := []models.Evaluation{
		{Score: scoreOf(3), Weaknesses: "sql api css tree"},
	}

	topics := DetectWeakTopics(evals, weakTopicStatsLimit)

	require.Len(t, topics, 1)
	assert.Equal(t, 0, topics[0].Frequency)
}

func TestDetectWeakTopicsPunctuationAndCase(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(4), Weaknesses: "DOCKER!!! (kubernetes)... Testing/debugging?"},
	}

	topics := DetectWeakTopics(evals, 10)

	require.Len(t, topics, 4)
	got := make([]string, 0, len(topics))
	for _, topic := range topics {
		got = append(got, topic.Topic)
	}
	assert.ElementsMatch(t, []string{"Docker", "Kubernetes", "Testing", "Debugging"}, got)
}

func TestDetectWeakTopicsRecommendations(t *testing.T) {
	evals := []models.Evaluation{
		{Score: scoreOf(4), Weaknesses: "hooks and scaling"},
	}

	topics := DetectWeakTopics(evals, 10)

	require.Len(t, topics, 2)
	byName := map[string]WeakTopic{}
	for _, topic := range topics {
		byName[topic.Topic] = topic
	}

	assert.Equal(t, topicAdvice["hooks"], byName["Hooks"].Recommendation)
	// "scaling" has no advice entry, so the generic fallback applies.
	assert.Equal(t, "Review Scaling concepts and practice", byName["Scaling"].Recommendation)
}

func TestHasDetectedPatterns(t *testing.T) {
	assert.False(t, hasDetectedPatterns(noPatternSentinel()))
	assert.False(t, hasDetectedPatterns(nil))
	assert.True(t, hasDetectedPatterns([]WeakTopic{{Topic: "React", Frequency: 2}}))
}
