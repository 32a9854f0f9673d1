package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/prepdeck/interview-server/internal/service"
)

// Static produces template challenges without calling an external model.
// It serves deployments that run without a Gemini API key.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Generate(_ context.Context, topics []service.WeakTopic) (service.GeneratedChallenge, error) {
	if len(topics) == 0 {
		return service.GeneratedChallenge{
			RecommendedTopics: []string{},
			Challenge: service.ChallengeDetail{
				Title:       "Daily Practice Session",
				Description: "Complete one mock interview today and review your evaluation feedback afterwards.",
				Difficulty:  "easy",
			},
		}, nil
	}

	recommended := make([]string, 0, len(topics))
	for _, t := range topics {
		recommended = append(recommended, t.Topic)
	}

	primary := topics[0]
	return service.GeneratedChallenge{
		RecommendedTopics: recommended,
		Challenge: service.ChallengeDetail{
			Title:       fmt.Sprintf("Focus on %s", primary.Topic),
			Description: fmt.Sprintf("Your recent interviews flagged %s as a recurring weakness. %s. Spend thirty minutes on it, then complete a short mock interview touching the same area.", strings.Join(recommended, ", "), primary.Recommendation),
			Difficulty:  difficultyFor(primary.Frequency),
		},
	}, nil
}

// difficultyFor scales difficulty with how entrenched the weakness is.
func difficultyFor(frequency int) string {
	switch {
	case frequency >= 5:
		return "hard"
	case frequency >= 2:
		return "medium"
	default:
		return "easy"
	}
}
