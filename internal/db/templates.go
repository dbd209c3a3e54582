package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-markup/internal/templates"
)

// TemplateStore serves custom templates from the resume_templates table. It
// implements templates.Store.
type TemplateStore struct {
	db *DB
}

// Templates returns the template store backed by db
func (db *DB) Templates() *TemplateStore {
	return &TemplateStore{db: db}
}

// Load implements templates.Store
func (s *TemplateStore) Load(ctx context.Context, id string) (string, error) {
	var skeleton string
	err := s.db.q.QueryRow(ctx,
		`SELECT skeleton FROM resume_templates WHERE id = $1`,
		id,
	).Scan(&skeleton)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", templates.ErrNotFound
		}
		return "", fmt.Errorf("%w: load template %s: %v", templates.ErrStoreUnavailable, id, err)
	}
	return skeleton, nil
}

// Save validates and upserts a template
func (s *TemplateStore) Save(ctx context.Context, asset templates.TemplateAsset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	_, err := s.db.q.Exec(ctx,
		`INSERT INTO resume_templates (id, skeleton)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET skeleton = $2, updated_at = NOW()`,
		asset.ID, asset.Skeleton,
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", asset.ID, err)
	}
	return nil
}
