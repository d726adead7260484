package ranker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"learnpath/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// fakeModel implements llms.Model with a canned response.
type fakeModel struct {
	response string
	err      error
	delay    time.Duration
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func pool(n int) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, &domain.ContentItem{
			ID:          fmt.Sprintf("content-%d", i),
			Title:       fmt.Sprintf("Item %d", i),
			ContentType: domain.ContentTypeDocument,
			Difficulty:  domain.DifficultyMedium,
		})
	}
	return items
}

func rankInput(candidates []*domain.ContentItem, baseIDs ...string) domain.RankInput {
	return domain.RankInput{
		StudentType:       domain.LearnerTypeAutism,
		AutismScore:       9,
		DownSyndromeScore: 3,
		Accuracy:          0.5,
		Candidates:        candidates,
		BaseIDs:           baseIDs,
	}
}

func TestRecommend_ParsesCleanJSONArray(t *testing.T) {
	model := &fakeModel{response: "[2, 4, 1]"}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Equal(t, []string{"content-2", "content-4", "content-1"}, ids)
}

func TestRecommend_ExtractsArrayFromProse(t *testing.T) {
	model := &fakeModel{response: "Sure! Based on the profile I'd pick:\n```json\n[3, 5]\n```\nThese suit visual learners."}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Equal(t, []string{"content-3", "content-5"}, ids)
}

func TestRecommend_DiscardsOutOfRangeIndices(t *testing.T) {
	model := &fakeModel{response: "[0, 2, 99, -1, 3]"}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Equal(t, []string{"content-2", "content-3"}, ids)
}

func TestRecommend_DeduplicatesAgainstBaseSet(t *testing.T) {
	model := &fakeModel{response: "[1, 2, 3, 3]"}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5), "content-1"))
	require.NoError(t, err)
	// content-1 is already assigned, the repeated 3 collapses.
	assert.Equal(t, []string{"content-2", "content-3"}, ids)
}

func TestRecommend_CapsRecommendationCount(t *testing.T) {
	model := &fakeModel{response: "[1,2,3,4,5,6,7,8,9,10,11,12]"}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(12)))
	require.NoError(t, err)
	assert.Len(t, ids, 8)
}

func TestRecommend_GarbageResponseYieldsNothing(t *testing.T) {
	model := &fakeModel{response: "I cannot help with that."}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecommend_ModelErrorAbsorbed(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecommend_TimeoutAbsorbed(t *testing.T) {
	model := &fakeModel{response: "[1]", delay: 200 * time.Millisecond}
	r := NewLLMRanker(model, 20*time.Millisecond, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(5)))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecommend_EmptyPoolSkipsModelCall(t *testing.T) {
	model := &fakeModel{err: errors.New("must not be called")}
	r := NewLLMRanker(model, time.Second, 80, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(nil))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecommend_CandidateListCapped(t *testing.T) {
	// With a 3-item cap, index 4 points outside the enumerated catalog and
	// must be discarded.
	model := &fakeModel{response: "[4, 2]"}
	r := NewLLMRanker(model, time.Second, 3, zap.NewNop())

	ids, err := r.Recommend(context.Background(), rankInput(pool(10)))
	require.NoError(t, err)
	assert.Equal(t, []string{"content-2"}, ids)
}

func TestExtractIndexArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
		ok   bool
	}{
		{"clean", "[1,2,3]", []int{1, 2, 3}, true},
		{"embedded", "picks: [7, 9] done", []int{7, 9}, true},
		{"skips non-numeric array", `["a","b"] then [4]`, []int{4}, true},
		{"empty array", "[]", []int{}, true},
		{"no array", "nothing here", nil, false},
		{"unclosed", "[1, 2", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractIndexArray(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
