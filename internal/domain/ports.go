package domain

import "context"

// QuestionSource loads the diagnostic question bank. Implementations are
// store-backed and file-backed, selected by configuration.
type QuestionSource interface {
	Load(ctx context.Context) (*QuestionBank, error)
}

// AnswerSetRepository persists diagnostic submissions.
type AnswerSetRepository interface {
	Save(ctx context.Context, answers *AnswerSet) error
	GetByStudentID(ctx context.Context, studentID string) (*AnswerSet, error)
}

// TestResultRepository persists scored diagnostic results. Save must be
// atomic with respect to the one-result-per-student invariant: a duplicate
// insert returns an ALREADY_COMPLETED domain error, backed by a unique
// constraint on student_id rather than a read-then-write check.
type TestResultRepository interface {
	Save(ctx context.Context, result *TestResult) error
	GetByStudentID(ctx context.Context, studentID string) (*TestResult, error)

	// ListMissingDifficulty returns results of students whose
	// current_difficulty has never been set. Used by the backfill task.
	ListMissingDifficulty(ctx context.Context) ([]*TestResult, error)
}

// StudentRepository covers the engine-owned columns of the student record.
type StudentRepository interface {
	GetByID(ctx context.Context, studentID string) (*Student, error)
	ListAll(ctx context.Context) ([]*Student, error)
	UpdateClassification(ctx context.Context, studentID string, learnerType LearnerType, difficulty DifficultyBand) error
	UpdateDifficulty(ctx context.Context, studentID string, difficulty DifficultyBand) error
}

// ContentCatalog is the read-only query interface over the content catalog.
type ContentCatalog interface {
	// FindPublished returns published items matching exactly the given
	// learner type and difficulty band, in catalog order.
	FindPublished(ctx context.Context, pathType LearnerType, difficulty DifficultyBand) ([]*ContentItem, error)

	// FindCandidatePool returns a broader published pool for AI ranking,
	// filtered by difficulty band only, capped at limit.
	FindCandidatePool(ctx context.Context, difficulty DifficultyBand, limit int) ([]*ContentItem, error)

	// GetPathByType returns the curriculum path for a learner type.
	GetPathByType(ctx context.Context, pathType LearnerType) (*CurriculumPath, error)
}

// StudentPathRepository persists per-student paths.
type StudentPathRepository interface {
	GetByStudentID(ctx context.Context, studentID string) (*StudentPath, error)
	// Save upserts the path for path.StudentID, replacing assigned content.
	Save(ctx context.Context, path *StudentPath) error
}

// RankInput carries everything the AI ranker may use to select
// supplementary content for a student.
type RankInput struct {
	StudentType       LearnerType
	AutismScore       int
	DownSyndromeScore int
	Accuracy          float64
	Candidates        []*ContentItem
	BaseIDs           []string
}

// Ranker selects a small supplementary set of content ids from a candidate
// pool. Implementations are best-effort: any failure of the underlying
// service yields an empty result, not an error that blocks curation.
type Ranker interface {
	Recommend(ctx context.Context, input RankInput) ([]string, error)
}
