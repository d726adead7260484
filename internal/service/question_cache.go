package service

import (
	"context"
	"encoding/json"

	"learnpath/internal/cache"
	"learnpath/internal/domain"

	"go.uber.org/zap"
)

// cachingQuestionSource decorates a QuestionSource with a cache. The bank is
// static input, so cache failures simply fall through to the source.
type cachingQuestionSource struct {
	source domain.QuestionSource
	cache  domain.Cache
	logger *zap.Logger
}

// NewCachingQuestionSource wraps source with read-through caching.
func NewCachingQuestionSource(source domain.QuestionSource, cacheAdapter domain.Cache, logger *zap.Logger) domain.QuestionSource {
	return &cachingQuestionSource{source: source, cache: cacheAdapter, logger: logger}
}

type cachedBank struct {
	Section1 []domain.Question `json:"section1"`
	Section2 []domain.Question `json:"section2"`
	Section3 []domain.Question `json:"section3"`
}

func (s *cachingQuestionSource) Load(ctx context.Context) (*domain.QuestionBank, error) {
	if raw, err := s.cache.Get(ctx, cache.QuestionBankKey()); err == nil {
		var cached cachedBank
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &domain.QuestionBank{
				Section1: cached.Section1,
				Section2: cached.Section2,
				Section3: cached.Section3,
			}, nil
		}
	} else if err != domain.ErrCacheMiss {
		s.logger.Warn("Question bank cache read failed", zap.Error(err))
	}

	bank, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedBank{
		Section1: bank.Section1,
		Section2: bank.Section2,
		Section3: bank.Section3,
	})
	if err == nil {
		if err := s.cache.Set(ctx, cache.QuestionBankKey(), string(payload), cache.QuestionBankTTL); err != nil {
			s.logger.Warn("Question bank cache write failed", zap.Error(err))
		}
	}
	return bank, nil
}
