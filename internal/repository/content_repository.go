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

// sqlxContentCatalog implements domain.ContentCatalog using sqlx. The
// catalog tables are owned by the content-authoring subsystem; this adapter
// only reads.
type sqlxContentCatalog struct {
	db *sqlx.DB
}

// NewSQLXContentCatalog creates a new instance of sqlxContentCatalog.
func NewSQLXContentCatalog(db *sqlx.DB) domain.ContentCatalog {
	return &sqlxContentCatalog{db: db}
}

func (r *sqlxContentCatalog) FindPublished(ctx context.Context, pathType domain.LearnerType, difficulty domain.DifficultyBand) ([]*domain.ContentItem, error) {
	var rows []models.ContentItem
	query := `SELECT * FROM content_items
	          WHERE path_type = :path_type AND difficulty = :difficulty AND status = :status
	          ORDER BY order_no`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for FindPublished: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{
		"path_type":  string(pathType),
		"difficulty": string(difficulty),
		"status":     domain.ContentStatusPublished,
	}
	if err := stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, fmt.Errorf("failed to find published content: %w", err)
	}
	return toDomainContentItems(rows), nil
}

func (r *sqlxContentCatalog) FindCandidatePool(ctx context.Context, difficulty domain.DifficultyBand, limit int) ([]*domain.ContentItem, error) {
	var rows []models.ContentItem
	// ROWNUM is assigned before ORDER BY; FETCH FIRST limits after the sort
	// so the pool is the head of the catalog order, not an arbitrary sample.
	query := `SELECT * FROM content_items
	          WHERE difficulty = :difficulty AND status = :status
	          ORDER BY order_no
	          FETCH FIRST :row_limit ROWS ONLY`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for FindCandidatePool: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{
		"difficulty": string(difficulty),
		"status":     domain.ContentStatusPublished,
		"row_limit":  limit,
	}
	if err := stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, fmt.Errorf("failed to find candidate pool: %w", err)
	}
	return toDomainContentItems(rows), nil
}

func (r *sqlxContentCatalog) GetPathByType(ctx context.Context, pathType domain.LearnerType) (*domain.CurriculumPath, error) {
	var row models.CurriculumPath
	query := `SELECT * FROM curriculum_paths WHERE path_type = :path_type AND status = :status`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetPathByType: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{
		"path_type": string(pathType),
		"status":    domain.ContentStatusPublished,
	}
	if err := stmt.GetContext(ctx, &row, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no curriculum path for type %s: %w", pathType, err)
		}
		return nil, fmt.Errorf("failed to get curriculum path: %w", err)
	}
	return &domain.CurriculumPath{
		ID:       row.ID,
		Title:    row.Title,
		PathType: domain.LearnerType(row.PathType),
		Status:   row.Status,
	}, nil
}

func toDomainContentItems(rows []models.ContentItem) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		items = append(items, &domain.ContentItem{
			ID:          m.ID,
			Title:       m.Title,
			PathType:    domain.LearnerType(m.PathType),
			Difficulty:  domain.DifficultyBand(m.Difficulty),
			ContentType: domain.ContentType(m.ContentType),
			Topic:       m.Topic,
			CourseID:    m.CourseID,
			Status:      m.Status,
		})
	}
	return items
}
