package service

import (
	"context"
	"fmt"
	"math"

	"learnpath/internal/domain"
	"learnpath/internal/dto"
	"learnpath/internal/util"

	"go.uber.org/zap"
)

// DiagnosticService scores diagnostic submissions and persists the outcome.
type DiagnosticService interface {
	// SubmitAnswers validates, scores and persists a student's diagnostic
	// submission. The quiz is single-attempt: a second submission is
	// rejected with an ALREADY_COMPLETED error and leaves the original
	// result unchanged.
	SubmitAnswers(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error)

	// GetResult returns the stored result for a student.
	GetResult(ctx context.Context, studentID string) (*dto.DiagnosticResultResponse, error)
}

type diagnosticService struct {
	questions domain.QuestionSource
	answers   domain.AnswerSetRepository
	results   domain.TestResultRepository
	students  domain.StudentRepository
	opts      ScoringOptions
	logger    *zap.Logger
}

// NewDiagnosticService creates a new instance of diagnosticService.
func NewDiagnosticService(
	questions domain.QuestionSource,
	answers domain.AnswerSetRepository,
	results domain.TestResultRepository,
	students domain.StudentRepository,
	opts ScoringOptions,
	logger *zap.Logger,
) DiagnosticService {
	return &diagnosticService{
		questions: questions,
		answers:   answers,
		results:   results,
		students:  students,
		opts:      opts,
		logger:    logger,
	}
}

func (s *diagnosticService) SubmitAnswers(ctx context.Context, studentID string, req *dto.SubmitDiagnosticRequest) (*dto.DiagnosticResultResponse, error) {
	// Fast user-facing pre-check. The unique constraint on
	// test_results.student_id closes the race between check and insert.
	existing, err := s.results.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to look up existing test result", err)
	}
	if existing != nil {
		return nil, domain.NewAlreadyCompletedError(studentID)
	}

	bank, err := s.questions.Load(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load question bank", err)
	}

	answerSet := domain.NewAnswerSet(studentID, req.Section1, req.Section2, req.Section3)
	answerSet.ID = util.NewULID()

	result, err := Score(answerSet, bank, s.opts)
	if err != nil {
		return nil, err
	}
	result.ID = util.NewULID()

	if err := s.answers.Save(ctx, answerSet); err != nil {
		return nil, domain.NewPersistenceError("failed to save answer set", err)
	}

	// Save maps a unique-constraint violation to ALREADY_COMPLETED, so a
	// concurrent duplicate surfaces here instead of overwriting.
	if err := s.results.Save(ctx, result); err != nil {
		return nil, err
	}

	band := ClassifyDifficulty(result.Accuracy)
	if err := s.students.UpdateClassification(ctx, studentID, result.DeterminedType, band); err != nil {
		return nil, domain.NewPersistenceError("failed to update student classification", err)
	}

	s.logger.Info("Diagnostic test scored",
		zap.String("student_id", studentID),
		zap.String("determined_type", string(result.DeterminedType)),
		zap.Int("autism_score", result.AutismScore),
		zap.Int("down_syndrome_score", result.DownSyndromeScore),
		zap.Float64("accuracy", result.Accuracy),
		zap.String("difficulty", string(band)),
	)

	return toDiagnosticResultResponse(result, band), nil
}

func (s *diagnosticService) GetResult(ctx context.Context, studentID string) (*dto.DiagnosticResultResponse, error) {
	result, err := s.results.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get test result", err)
	}
	if result == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("no diagnostic result for student %s", studentID))
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get student", err)
	}
	band := domain.DifficultyBand("")
	if student != nil {
		band = student.CurrentDifficulty
	}

	return toDiagnosticResultResponse(result, band), nil
}

func toDiagnosticResultResponse(result *domain.TestResult, band domain.DifficultyBand) *dto.DiagnosticResultResponse {
	return &dto.DiagnosticResultResponse{
		StudentType:       string(result.DeterminedType),
		AutismScore:       result.AutismScore,
		DownSyndromeScore: result.DownSyndromeScore,
		Accuracy:          int(math.Round(result.Accuracy * 100)),
		CurrentDifficulty: string(band),
		Message:           "Diagnostic test completed",
	}
}
