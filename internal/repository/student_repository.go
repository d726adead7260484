package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learnpath/internal/domain"
	"learnpath/internal/repository/models"
	"learnpath/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxStudentRepository implements domain.StudentRepository using sqlx.
type sqlxStudentRepository struct {
	db *sqlx.DB
}

// NewSQLXStudentRepository creates a new instance of sqlxStudentRepository.
func NewSQLXStudentRepository(db *sqlx.DB) domain.StudentRepository {
	return &sqlxStudentRepository{db: db}
}

func (r *sqlxStudentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	var row models.Student
	query := `SELECT id, determined_type, current_difficulty FROM students WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByID: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"id": studentID}
	if err := stmt.GetContext(ctx, &row, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error, services decide
		}
		return nil, fmt.Errorf("failed to get student by id: %w", err)
	}
	return toDomainStudent(&row), nil
}

func (r *sqlxStudentRepository) ListAll(ctx context.Context) ([]*domain.Student, error) {
	var rows []models.Student
	query := `SELECT id, determined_type, current_difficulty FROM students ORDER BY id`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	students := make([]*domain.Student, 0, len(rows))
	for i := range rows {
		students = append(students, toDomainStudent(&rows[i]))
	}
	return students, nil
}

func (r *sqlxStudentRepository) UpdateClassification(ctx context.Context, studentID string, learnerType domain.LearnerType, difficulty domain.DifficultyBand) error {
	query := `UPDATE students SET determined_type = :determined_type, current_difficulty = :current_difficulty
	          WHERE id = :id`

	args := map[string]interface{}{
		"id":                 studentID,
		"determined_type":    string(learnerType),
		"current_difficulty": string(difficulty),
	}
	result, err := r.db.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update student classification: %w", err)
	}
	return requireRowAffected(result, studentID)
}

func (r *sqlxStudentRepository) UpdateDifficulty(ctx context.Context, studentID string, difficulty domain.DifficultyBand) error {
	query := `UPDATE students SET current_difficulty = :current_difficulty WHERE id = :id`

	args := map[string]interface{}{
		"id":                 studentID,
		"current_difficulty": string(difficulty),
	}
	result, err := r.db.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update student difficulty: %w", err)
	}
	return requireRowAffected(result, studentID)
}

func requireRowAffected(result sql.Result, studentID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("student %s not found: %w", studentID, sql.ErrNoRows)
	}
	return nil
}

func toDomainStudent(m *models.Student) *domain.Student {
	return &domain.Student{
		ID:                m.ID,
		DeterminedType:    domain.LearnerType(m.DeterminedType.String),
		CurrentDifficulty: domain.DifficultyBand(m.CurrentDifficulty.String),
	}
}

// fromDomainStudent converts for inserts in seed tooling and tests.
func fromDomainStudent(d *domain.Student) *models.Student {
	return &models.Student{
		ID:                d.ID,
		DeterminedType:    util.StringToNullString(string(d.DeterminedType)),
		CurrentDifficulty: util.StringToNullString(string(d.CurrentDifficulty)),
	}
}
