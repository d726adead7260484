package service

import (
	"context"
	"time"

	"learnpath/internal/domain"
	"learnpath/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionSource ---
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) Load(ctx context.Context) (*domain.QuestionBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionBank), args.Error(1)
}

// --- MockAnswerSetRepository ---
type MockAnswerSetRepository struct {
	mock.Mock
}

func (m *MockAnswerSetRepository) Save(ctx context.Context, answers *domain.AnswerSet) error {
	args := m.Called(ctx, answers)
	return args.Error(0)
}

func (m *MockAnswerSetRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.AnswerSet, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerSet), args.Error(1)
}

// --- MockTestResultRepository ---
type MockTestResultRepository struct {
	mock.Mock
}

func (m *MockTestResultRepository) Save(ctx context.Context, result *domain.TestResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockTestResultRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.TestResult, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestResult), args.Error(1)
}

func (m *MockTestResultRepository) ListMissingDifficulty(ctx context.Context) ([]*domain.TestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestResult), args.Error(1)
}

// --- MockStudentRepository ---
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListAll(ctx context.Context) ([]*domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateClassification(ctx context.Context, studentID string, learnerType domain.LearnerType, difficulty domain.DifficultyBand) error {
	args := m.Called(ctx, studentID, learnerType, difficulty)
	return args.Error(0)
}

func (m *MockStudentRepository) UpdateDifficulty(ctx context.Context, studentID string, difficulty domain.DifficultyBand) error {
	args := m.Called(ctx, studentID, difficulty)
	return args.Error(0)
}

// --- MockContentCatalog ---
type MockContentCatalog struct {
	mock.Mock
}

func (m *MockContentCatalog) FindPublished(ctx context.Context, pathType domain.LearnerType, difficulty domain.DifficultyBand) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, pathType, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentCatalog) FindCandidatePool(ctx context.Context, difficulty domain.DifficultyBand, limit int) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, difficulty, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentCatalog) GetPathByType(ctx context.Context, pathType domain.LearnerType) (*domain.CurriculumPath, error) {
	args := m.Called(ctx, pathType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CurriculumPath), args.Error(1)
}

// --- MockStudentPathRepository ---
type MockStudentPathRepository struct {
	mock.Mock
}

func (m *MockStudentPathRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.StudentPath, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentPath), args.Error(1)
}

func (m *MockStudentPathRepository) Save(ctx context.Context, path *domain.StudentPath) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// --- MockRanker ---
type MockRanker struct {
	mock.Mock
}

func (m *MockRanker) Recommend(ctx context.Context, input domain.RankInput) ([]string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockCurationService ---
type MockCurationService struct {
	mock.Mock
}

func (m *MockCurationService) RegeneratePath(ctx context.Context, studentID string) (*domain.StudentPath, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentPath), args.Error(1)
}

func (m *MockCurationService) GetPath(ctx context.Context, studentID string) (*dto.StudentPathResponse, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StudentPathResponse), args.Error(1)
}
