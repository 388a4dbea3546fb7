package patterns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresTierRepository persists each tier as a single JSONB document row.
// The whole document is read into memory and rewritten on each mutation,
// matching the file layout's semantics.
type PostgresTierRepository struct {
	db *sql.DB
}

// NewPostgresTierRepository creates a new PostgresTierRepository
func NewPostgresTierRepository(db *sql.DB) *PostgresTierRepository {
	return &PostgresTierRepository{db: db}
}

// Load retrieves one tier document; a missing row reads as an empty tier
func (r *PostgresTierRepository) Load(ctx context.Context, tier Tier) (*Document, error) {
	query := `SELECT document FROM pattern_tiers WHERE name = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, string(tier)).Scan(&data)
	if err == sql.ErrNoRows {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s tier document: %w", tier, err)
	}
	return doc, nil
}

// Save rewrites one tier document
func (r *PostgresTierRepository) Save(ctx context.Context, tier Tier, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s tier document: %w", tier, err)
	}

	query := `
		INSERT INTO pattern_tiers (name, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET document = $2, updated_at = $3
	`

	_, err = r.db.ExecContext(ctx, query, string(tier), data, time.Now())
	return err
}
