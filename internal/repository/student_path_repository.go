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

// sqlxStudentPathRepository implements domain.StudentPathRepository using sqlx.
type sqlxStudentPathRepository struct {
	db *sqlx.DB
}

// NewSQLXStudentPathRepository creates a new instance of sqlxStudentPathRepository.
func NewSQLXStudentPathRepository(db *sqlx.DB) domain.StudentPathRepository {
	return &sqlxStudentPathRepository{db: db}
}

func (r *sqlxStudentPathRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.StudentPath, error) {
	var row models.StudentPath
	query := `SELECT * FROM student_paths WHERE student_id = :student_id`

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
		return nil, fmt.Errorf("failed to get student path by student_id: %w", err)
	}

	return &domain.StudentPath{
		ID:               row.ID,
		StudentID:        row.StudentID,
		CurriculumPathID: row.CurriculumPathID,
		AssignedContent:  row.AssignedContent,
		Status:           domain.PathStatus(row.Status),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

// Save upserts the path row keyed by student_id. The path is the only row
// its student's curation touches, so update-then-insert needs no locking.
func (r *sqlxStudentPathRepository) Save(ctx context.Context, path *domain.StudentPath) error {
	row := &models.StudentPath{
		ID:               path.ID,
		StudentID:        path.StudentID,
		CurriculumPathID: path.CurriculumPathID,
		AssignedContent:  models.EntrySlice(path.AssignedContent),
		Status:           string(path.Status),
		CreatedAt:        path.CreatedAt,
		UpdatedAt:        path.UpdatedAt,
	}

	updateQuery := `UPDATE student_paths SET
	                  curriculum_path_id = :CURRICULUM_PATH_ID,
	                  assigned_content = :ASSIGNED_CONTENT,
	                  status = :STATUS,
	                  updated_at = :UPDATED_AT
	                WHERE student_id = :STUDENT_ID`

	result, err := r.db.NamedExecContext(ctx, updateQuery, row)
	if err != nil {
		return fmt.Errorf("failed to update student path: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	insertQuery := `INSERT INTO student_paths (id, student_id, curriculum_path_id, assigned_content, status, created_at, updated_at)
	                VALUES (:ID, :STUDENT_ID, :CURRICULUM_PATH_ID, :ASSIGNED_CONTENT, :STATUS, :CREATED_AT, :UPDATED_AT)`

	if _, err := r.db.NamedExecContext(ctx, insertQuery, row); err != nil {
		return fmt.Errorf("failed to insert student path: %w", err)
	}
	return nil
}
