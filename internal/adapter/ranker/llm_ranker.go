package ranker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"learnpath/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	// DefaultMaxCandidates caps how many catalog items are enumerated in
	// the prompt.
	DefaultMaxCandidates = 80

	// maxRecommendations caps how many ids a single ranking may add.
	maxRecommendations = 8
)

// LLMRanker implements domain.Ranker over a text-generation model. This is
// the system's primary external-dependency failure boundary: a call that
// errors, times out, or returns unparseable text yields an empty result and
// never propagates into the caller.
type LLMRanker struct {
	model         llms.Model
	timeout       time.Duration
	maxCandidates int
	logger        *zap.Logger
}

// NewLLMRanker creates a new instance of LLMRanker.
func NewLLMRanker(model llms.Model, timeout time.Duration, maxCandidates int, logger *zap.Logger) domain.Ranker {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &LLMRanker{
		model:         model,
		timeout:       timeout,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Recommend asks the model for a small selection out of the candidate pool.
func (r *LLMRanker) Recommend(ctx context.Context, input domain.RankInput) ([]string, error) {
	if len(input.Candidates) == 0 {
		return nil, nil
	}

	candidates := input.Candidates
	if len(candidates) > r.maxCandidates {
		candidates = candidates[:r.maxCandidates]
	}

	prompt := buildRankPrompt(input, candidates)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(callCtx, r.model, prompt)
	if err != nil {
		r.logger.Warn("AI ranking call failed, returning no recommendations",
			zap.Error(domain.NewAIServiceDegradedError(err)))
		return nil, nil
	}

	indices, ok := extractIndexArray(raw)
	if !ok {
		r.logger.Warn("AI ranking response contained no parseable JSON array",
			zap.String("response_head", head(raw, 200)))
		return nil, nil
	}

	base := make(map[string]bool, len(input.BaseIDs))
	for _, id := range input.BaseIDs {
		base[id] = true
	}

	seen := make(map[string]bool)
	var ids []string
	for _, idx := range indices {
		// Indices are 1-based; anything out of range is discarded.
		if idx < 1 || idx > len(candidates) {
			continue
		}
		id := candidates[idx-1].ID
		if base[id] || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if len(ids) == maxRecommendations {
			break
		}
	}
	return ids, nil
}

// buildRankPrompt enumerates the candidate pool 1-based and asks for a JSON
// array of 5-8 selected indices.
func buildRankPrompt(input domain.RankInput, candidates []*domain.ContentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a special-education content curator. A student has the following diagnostic profile:
- learner type: %s
- autism score: %d
- down syndrome score: %d
- knowledge accuracy: %.0f%%

From the numbered catalog below, select the 5 to 8 items that would best supplement this student's learning path.
Respond with ONLY a JSON array of the selected item numbers, for example: [2, 5, 9]

Catalog:
`, input.StudentType, input.AutismScore, input.DownSyndromeScore, input.Accuracy*100)

	for i, item := range candidates {
		fmt.Fprintf(&b, "%d. %s (type: %s, difficulty: %s)\n",
			i+1, item.Title, item.ContentType, item.Difficulty)
	}
	return b.String()
}

// extractIndexArray finds the first well-formed JSON array of integers in
// free text. Models wrap answers in prose or code fences often enough that
// strict unmarshaling of the whole response is useless.
func extractIndexArray(raw string) ([]int, bool) {
	for start := strings.IndexByte(raw, '['); start != -1; {
		end := strings.IndexByte(raw[start:], ']')
		if end == -1 {
			return nil, false
		}
		candidate := raw[start : start+end+1]

		var indices []int
		if err := json.Unmarshal([]byte(candidate), &indices); err == nil {
			return indices, true
		}

		next := strings.IndexByte(raw[start+1:], '[')
		if next == -1 {
			return nil, false
		}
		start = start + 1 + next
	}
	return nil, false
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
