package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Analysis is one completed analysis summary. Full results are owned by the
// request and never persisted; only the summary row is kept for history.
type Analysis struct {
	ID                uuid.UUID
	Filename          string
	FileType          string
	Rating            string
	Score             float64
	TotalMatches      int
	QualityAssessment string
	CreatedAt         time.Time
}

// AnalysisRepository defines the interface for analysis history storage
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	List(ctx context.Context, limit int) ([]*Analysis, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresAnalysisRepository implements AnalysisRepository using PostgreSQL
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgresAnalysisRepository
func NewPostgresAnalysisRepository(db *sql.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// Create inserts a new analysis summary
func (r *PostgresAnalysisRepository) Create(ctx context.Context, analysis *Analysis) error {
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO analyses (id, filename, file_type, rating, score, total_matches, quality_assessment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.Filename,
		analysis.FileType,
		analysis.Rating,
		analysis.Score,
		analysis.TotalMatches,
		analysis.QualityAssessment,
		analysis.CreatedAt,
	)

	return err
}

// GetByID retrieves an analysis summary by its ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	query := `
		SELECT id, filename, file_type, rating, score, total_matches, quality_assessment, created_at
		FROM analyses
		WHERE id = $1
	`

	analysis := &Analysis{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.Filename,
		&analysis.FileType,
		&analysis.Rating,
		&analysis.Score,
		&analysis.TotalMatches,
		&analysis.QualityAssessment,
		&analysis.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// List retrieves the most recent analysis summaries
func (r *PostgresAnalysisRepository) List(ctx context.Context, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, filename, file_type, rating, score, total_matches, quality_assessment, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		analysis := &Analysis{}
		err := rows.Scan(
			&analysis.ID,
			&analysis.Filename,
			&analysis.FileType,
			&analysis.Rating,
			&analysis.Score,
			&analysis.TotalMatches,
			&analysis.QualityAssessment,
			&analysis.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// Delete removes an analysis summary
func (r *PostgresAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM analyses WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
