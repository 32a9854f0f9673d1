// Package generator produces daily challenge content from weak topic reports.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/prepdeck/interview-server/internal/service"
)

const defaultModel = "gemini-1.5-flash"

var allowedDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Gemini generates challenges through the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, logger: logger.Named("generator")}, nil
}

// Generate builds a challenge tailored to the given weak topics.
func (g *Gemini) Generate(ctx context.Context, topics []service.WeakTopic) (service.GeneratedChallenge, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(topics)))
	if err != nil {
		return service.GeneratedChallenge{}, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return service.GeneratedChallenge{}, err
	}

	challenge, err := parseChallenge(text)
	if err != nil {
		g.logger.Warn("discarding malformed generation output", zap.Error(err))
		return service.GeneratedChallenge{}, err
	}

	return challenge, nil
}

// Close releases resources held by the client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func buildPrompt(topics []service.WeakTopic) string {
	var b strings.Builder
	b.WriteString("You are an interview coach. A candidate showed weakness in the following topics, ordered by how often the weakness appeared:\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s (seen %d times): %s\n", t.Topic, t.Frequency, t.Recommendation)
	}
	b.WriteString(`
Produce one practice challenge for today targeting the most pressing weaknesses.
Respond with JSON only, in exactly this shape:
{
  "recommendedTopics": ["topic to study", ...],
  "dailyChallenge": {
    "title": "short title",
    "description": "two to four sentences describing the exercise",
    "difficulty": "easy" | "medium" | "hard"
  }
}`)
	return b.String()
}

// parseChallenge decodes and validates the model output.
func parseChallenge(text string) (service.GeneratedChallenge, error) {
	var out service.GeneratedChallenge
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &out); err != nil {
		return service.GeneratedChallenge{}, fmt.Errorf("invalid challenge JSON: %w", err)
	}

	if out.Challenge.Title == "" || out.Challenge.Description == "" {
		return service.GeneratedChallenge{}, fmt.Errorf("challenge is missing a title or description")
	}
	out.Challenge.Difficulty = strings.ToLower(out.Challenge.Difficulty)
	if !allowedDifficulties[out.Challenge.Difficulty] {
		out.Challenge.Difficulty = "medium"
	}
	if out.RecommendedTopics == nil {
		out.RecommendedTopics = []string{}
	}

	return out, nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
