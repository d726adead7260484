package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"learnpath/internal/domain"
	"learnpath/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxQuestionSource loads the diagnostic question bank from the database.
type sqlxQuestionSource struct {
	db *sqlx.DB
}

// NewSQLXQuestionSource creates a store-backed domain.QuestionSource.
func NewSQLXQuestionSource(db *sqlx.DB) domain.QuestionSource {
	return &sqlxQuestionSource{db: db}
}

func (r *sqlxQuestionSource) Load(ctx context.Context) (*domain.QuestionBank, error) {
	var rows []models.DiagnosticQuestion
	query := `SELECT * FROM diagnostic_questions ORDER BY section_no, order_no`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load diagnostic questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return domain.NewQuestionBank(questions), nil
}

func toDomainQuestion(m *models.DiagnosticQuestion) domain.Question {
	q := domain.Question{
		ID:            m.ID,
		Section:       m.Section,
		Order:         m.OrderNo,
		Prompt:        m.Prompt,
		Options:       m.Options,
		Weights:       m.Weights,
		CorrectOption: -1,
	}
	if m.CorrectOption.Valid {
		q.CorrectOption = int(m.CorrectOption.Int64)
	}
	return q
}

// fileQuestionSource loads the question bank from a static JSON file.
// Selected by the questions.source=file configuration flag.
type fileQuestionSource struct {
	path string
}

// NewFileQuestionSource creates a file-backed domain.QuestionSource.
func NewFileQuestionSource(path string) domain.QuestionSource {
	return &fileQuestionSource{path: path}
}

func (r *fileQuestionSource) Load(ctx context.Context) (*domain.QuestionBank, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file %s: %w", r.path, err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question file %s: %w", r.path, err)
	}

	for i := range questions {
		if questions[i].Section != domain.SectionKnowledge && questions[i].CorrectOption == 0 {
			// JSON omits correct_option outside section 2; zero would alias
			// the first option.
			questions[i].CorrectOption = -1
		}
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid question %q in %s: %w", questions[i].ID, r.path, err)
		}
	}
	return domain.NewQuestionBank(questions), nil
}
