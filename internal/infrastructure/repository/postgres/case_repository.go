package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// CaseRepository stores each case as a JSON document keyed by case id.
type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) SaveCase(ctx context.Context, c *domain.Case) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal case: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO cases (id, source_document, total_value, confidence_level, payload, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
	source_document = EXCLUDED.source_document,
	total_value = EXCLUDED.total_value,
	confidence_level = EXCLUDED.confidence_level,
	payload = EXCLUDED.payload
`, c.ID, c.SourceDocument, c.Portfolio.TotalValue, string(c.ConfidenceLevel), payload, c.UploadedAt)
	if err != nil {
		return fmt.Errorf("upsert case: %w", err)
	}
	return nil
}

func (r *CaseRepository) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM cases WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCaseNotFound, "get case", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan case: %w", err)
	}
	var c domain.Case
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("unmarshal case: %w", err)
	}
	return &c, nil
}
