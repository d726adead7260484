package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"learnpath/internal/domain"
	"learnpath/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxTestResultRepository implements domain.TestResultRepository using sqlx.
type sqlxTestResultRepository struct {
	db *sqlx.DB
}

// NewSQLXTestResultRepository creates a new instance of sqlxTestResultRepository.
func NewSQLXTestResultRepository(db *sqlx.DB) domain.TestResultRepository {
	return &sqlxTestResultRepository{db: db}
}

// Save inserts a test result. The unique constraint on student_id makes the
// insert the atomic arbiter of the single-attempt rule; a violation maps to
// ALREADY_COMPLETED instead of overwriting the original result.
func (r *sqlxTestResultRepository) Save(ctx context.Context, result *domain.TestResult) error {
	query := `INSERT INTO test_results (id, student_id, autism_score, down_syndrome_score, accuracy, determined_type, completed_at)
	          VALUES (:ID, :STUDENT_ID, :AUTISM_SCORE, :DOWN_SYNDROME_SCORE, :ACCURACY, :DETERMINED_TYPE, :COMPLETED_AT)`

	row := fromDomainTestResult(result)
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return domain.NewAlreadyCompletedError(result.StudentID)
		}
		return fmt.Errorf("failed to save test result: %w", err)
	}
	return nil
}

func (r *sqlxTestResultRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.TestResult, error) {
	var row models.TestResult
	query := `SELECT * FROM test_results WHERE student_id = :student_id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByStudentID: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"student_id": studentID}
	if err := stmt.GetContext(ctx, &row, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error, services decide
		}
		return nil, fmt.Errorf("failed to get test result by student_id: %w", err)
	}
	return toDomainTestResult(&row), nil
}

// ListMissingDifficulty returns results whose student has no
// current_difficulty yet. Drives the one-time backfill task; rerunning it
// is safe because backfilled students drop out of this query.
func (r *sqlxTestResultRepository) ListMissingDifficulty(ctx context.Context) ([]*domain.TestResult, error) {
	var rows []models.TestResult
	query := `SELECT tr.* FROM test_results tr
	          JOIN students s ON s.id = tr.student_id
	          WHERE s.current_difficulty IS NULL`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list results missing difficulty: %w", err)
	}

	results := make([]*domain.TestResult, 0, len(rows))
	for i := range rows {
		results = append(results, toDomainTestResult(&rows[i]))
	}
	return results, nil
}

func toDomainTestResult(m *models.TestResult) *domain.TestResult {
	return &domain.TestResult{
		ID:                m.ID,
		StudentID:         m.StudentID,
		AutismScore:       m.AutismScore,
		DownSyndromeScore: m.DownSyndromeScore,
		Accuracy:          m.Accuracy,
		DeterminedType:    domain.LearnerType(m.DeterminedType),
		CompletedAt:       m.CompletedAt,
	}
}

func fromDomainTestResult(d *domain.TestResult) *models.TestResult {
	return &models.TestResult{
		ID:                d.ID,
		StudentID:         d.StudentID,
		AutismScore:       d.AutismScore,
		DownSyndromeScore: d.DownSyndromeScore,
		Accuracy:          d.Accuracy,
		DeterminedType:    string(d.DeterminedType),
		CompletedAt:       d.CompletedAt,
	}
}

// isUniqueViolation reports whether err is an Oracle unique constraint
// violation (ORA-00001).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}
