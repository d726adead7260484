package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learnpath/internal/domain"
	"learnpath/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxAnswerSetRepository implements domain.AnswerSetRepository using sqlx.
type sqlxAnswerSetRepository struct {
	db *sqlx.DB
}

// NewSQLXAnswerSetRepository creates a new instance of sqlxAnswerSetRepository.
func NewSQLXAnswerSetRepository(db *sqlx.DB) domain.AnswerSetRepository {
	return &sqlxAnswerSetRepository{db: db}
}

func (r *sqlxAnswerSetRepository) Save(ctx context.Context, answers *domain.AnswerSet) error {
	query := `INSERT INTO answer_sets (id, student_id, section1, section2, section3, submitted_at)
	          VALUES (:ID, :STUDENT_ID, :SECTION1, :SECTION2, :SECTION3, :SUBMITTED_AT)`

	row := &models.AnswerSet{
		ID:          answers.ID,
		StudentID:   answers.StudentID,
		Section1:    models.IntSlice(answers.Section1),
		Section2:    models.IntSlice(answers.Section2),
		Section3:    models.IntSlice(answers.Section3),
		SubmittedAt: answers.SubmittedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		// One answer set per student. In the duplicate-submission race the
		// loser can hit this constraint before the test_results arbiter;
		// both paths surface the same single-attempt rejection.
		if isUniqueViolation(err) {
			return domain.NewAlreadyCompletedError(answers.StudentID)
		}
		return fmt.Errorf("failed to save answer set: %w", err)
	}
	return nil
}

func (r *sqlxAnswerSetRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.AnswerSet, error) {
	var row models.AnswerSet
	query := `SELECT * FROM answer_sets WHERE student_id = :student_id`

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
		return nil, fmt.Errorf("failed to get answer set by student_id: %w", err)
	}

	return &domain.AnswerSet{
		ID:          row.ID,
		StudentID:   row.StudentID,
		Section1:    row.Section1,
		Section2:    row.Section2,
		Section3:    row.Section3,
		SubmittedAt: row.SubmittedAt,
	}, nil
}
