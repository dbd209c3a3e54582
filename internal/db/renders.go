package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrRenderNotFound is returned by GetRender for an unknown id
var ErrRenderNotFound = errors.New("render not found")

// Render is an archived rendering
type Render struct {
	ID         uuid.UUID `json:"id"`
	TemplateID string    `json:"templateId"`
	FellBack   bool      `json:"fellBack"`
	Markup     string    `json:"markup"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SaveRender archives rendered markup and returns its id
func (db *DB) SaveRender(ctx context.Context, templateID string, fellBack bool, markup string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.q.Exec(ctx,
		`INSERT INTO rendered_resumes (id, template_id, fell_back, markup)
		 VALUES ($1, $2, $3, $4)`,
		id, templateID, fellBack, markup,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save render: %w", err)
	}
	return id, nil
}

// GetRender retrieves an archived rendering by id
func (db *DB) GetRender(ctx context.Context, id uuid.UUID) (*Render, error) {
	var r Render
	err := db.q.QueryRow(ctx,
		`SELECT id, template_id, fell_back, markup, created_at
		 FROM rendered_resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.TemplateID, &r.FellBack, &r.Markup, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRenderNotFound
		}
		return nil, fmt.Errorf("failed to get render %s: %w", id, err)
	}
	return &r, nil
}
