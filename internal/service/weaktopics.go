package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/prepdeck/interview-server/internal/repository/models"
)

const (
	// Evaluations scoring at or above this never contribute to weak-topic
	// detection.
	qualifyingScoreCeiling = 7.0

	// Tokens of four characters or fewer are dropped as noise.
	minTokenLength = 5

	weakTopicStatsLimit      = 3
	weakTopicGenerationLimit = 5
)

// weakTopicVocabulary is the fixed list of technical keywords the detector
// recognizes. Order matters: it is the deterministic tiebreaker when two
// topics share a frequency. Every term is at least five characters so it
// can survive the token length filter.
var weakTopicVocabulary = []string{
	"react", "hooks", "redux", "javascript", "typescript", "angular",
	"python", "golang", "database", "queries", "indexing", "caching",
	"arrays", "strings", "recursion", "algorithms", "complexity",
	"graphs", "trees", "sorting", "searching", "pointers",
	"concurrency", "goroutines", "channels", "testing", "debugging",
	"deployment", "docker", "kubernetes", "microservices", "scaling",
}

// topicAdvice maps vocabulary keywords to study recommendations. Keywords
// without an entry fall back to a generic message.
var topicAdvice = map[string]string{
	"react":         "Build small components from scratch and study the rendering lifecycle",
	"hooks":         "Practice useState and useEffect patterns with dependency arrays",
	"javascript":    "Review closures, prototypes and the event loop",
	"typescript":    "Work through generics and structural typing exercises",
	"database":      "Practice schema design and normalization on paper first",
	"queries":       "Write queries by hand against a sample dataset and explain the plans",
	"indexing":      "Study how composite indexes affect lookup and write cost",
	"caching":       "Review cache invalidation strategies and TTL tradeoffs",
	"recursion":     "Trace recursive calls on paper before coding them",
	"algorithms":    "Solve one timed algorithm problem per day",
	"complexity":    "Annotate every solution with its time and space complexity",
	"graphs":        "Implement BFS and DFS from memory, then their common variants",
	"trees":         "Practice traversals and rebalancing on whiteboard sketches",
	"concurrency":   "Model shared state explicitly and practice lock-free alternatives",
	"goroutines":    "Practice channel pipelines and context cancellation patterns",
	"testing":       "Write table-driven tests for a small package end to end",
	"debugging":     "Narrate your debugging process out loud while bisecting a failure",
	"docker":        "Containerize one of your own projects from an empty Dockerfile",
	"kubernetes":    "Deploy a toy service and walk through its manifest line by line",
	"microservices": "Sketch service boundaries for a monolith you know well",
}

var vocabularySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(weakTopicVocabulary))
	for _, kw := range weakTopicVocabulary {
		set[kw] = struct{}{}
	}
	return set
}()

// DetectWeakTopics mines weakness annotations from raw evaluations for
// recurring technical keywords and returns at most limit topics ranked by
// descending frequency, vocabulary order breaking ties. The score filter
// is applied here, so callers pass evaluations unfiltered. The result is
// never empty: with no qualifying input or no matches it is the single
// "no patterns" sentinel.
func DetectWeakTopics(evaluations []models.Evaluation, limit int) []WeakTopic {
	counts := make(map[string]int)

	for _, ev := range evaluations {
		if ev.Score == nil || *ev.Score >= qualifyingScoreCeiling {
			continue
		}
		for _, token := range tokenize(ev.Weaknesses) {
			if _, known := vocabularySet[token]; known {
				counts[token]++
			}
		}
	}

	ranked := make([]WeakTopic, 0, len(counts))
	for _, keyword := range weakTopicVocabulary {
		if count := counts[keyword]; count > 0 {
			ranked = append(ranked, WeakTopic{
				Topic:          capitalize(keyword),
				Frequency:      count,
				Recommendation: adviceFor(keyword),
			})
		}
	}

	if len(ranked) == 0 {
		return noPatternSentinel()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// hasDetectedPatterns distinguishes real detections from the sentinel.
func hasDetectedPatterns(topics []WeakTopic) bool {
	return len(topics) > 0 && topics[0].Frequency > 0
}

func noPatternSentinel() []WeakTopic {
	return []WeakTopic{{
		Topic:          "No patterns detected yet",
		Frequency:      0,
		Recommendation: "Complete more interviews to identify weak areas",
	}}
}

// tokenize lower-cases text, splits on non-alphanumeric boundaries and
// drops short tokens. Malformed input degrades to fewer tokens, never an
// error.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func adviceFor(keyword string) string {
	if advice, ok := topicAdvice[keyword]; ok {
		return advice
	}
	return "Review " + capitalize(keyword) + " concepts and practice"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
