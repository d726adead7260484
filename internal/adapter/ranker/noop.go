package ranker

import (
	"context"

	"learnpath/internal/domain"
)

// NoopRanker is the Ranker for environments without an AI backend
// configured. Curation proceeds with the base set only.
type NoopRanker struct{}

// NewNoopRanker creates a new NoopRanker.
func NewNoopRanker() domain.Ranker {
	return &NoopRanker{}
}

// Recommend returns no recommendations.
func (NoopRanker) Recommend(ctx context.Context, input domain.RankInput) ([]string, error) {
	return nil, nil
}
