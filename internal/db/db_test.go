package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-markup/internal/templates"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeQuerier struct {
	row     fakeRow
	execErr error
	sql     []string
	args    [][]any
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.row
}

func TestTemplateStore_Load(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []any{"skeleton {{.Content}}"}}}
	store := (&DB{q: q}).Templates()

	got, err := store.Load(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "skeleton {{.Content}}", got)
	assert.Equal(t, []any{"acme"}, q.args[0])
}

func TestTemplateStore_LoadErrors(t *testing.T) {
	store := (&DB{q: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}).Templates()
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, templates.ErrNotFound)

	store = (&DB{q: &fakeQuerier{row: fakeRow{err: errors.New("connection reset")}}}).Templates()
	_, err = store.Load(context.Background(), "acme")
	assert.ErrorIs(t, err, templates.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, templates.ErrNotFound)
}

func TestTemplateStore_SaveValidates(t *testing.T) {
	q := &fakeQuerier{}
	store := (&DB{q: q}).Templates()

	err := store.Save(context.Background(), templates.TemplateAsset{ID: "acme", Skeleton: "no placeholder"})
	require.Error(t, err)
	assert.Empty(t, q.sql)

	err = store.Save(context.Background(), templates.TemplateAsset{ID: "acme", Skeleton: "\\begin{document}{{.Content}}\\end{document}"})
	require.NoError(t, err)
	require.Len(t, q.sql, 1)
	assert.Contains(t, q.sql[0], "ON CONFLICT (id)")
}

func TestSaveRender(t *testing.T) {
	q := &fakeQuerier{}
	id, err := (&DB{q: q}).SaveRender(context.Background(), "classic", true, "markup")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, []any{id, "classic", true, "markup"}, q.args[0])

	q.execErr = errors.New("disk full")
	_, err = (&DB{q: q}).SaveRender(context.Background(), "classic", false, "markup")
	assert.Error(t, err)
}

func TestGetRender(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{row: fakeRow{values: []any{id, "modern", false, "body", created}}}

	r, err := (&DB{q: q}).GetRender(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, &Render{ID: id, TemplateID: "modern", Markup: "body", CreatedAt: created}, r)

	_, err = (&DB{q: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}).GetRender(context.Background(), id)
	assert.ErrorIs(t, err, ErrRenderNotFound)
}

func TestEnsureSchema(t *testing.T) {
	q := &fakeQuerier{}
	require.NoError(t, (&DB{q: q}).EnsureSchema(context.Background()))
	assert.Contains(t, q.sql[0], "CREATE TABLE IF NOT EXISTS resume_templates")
	assert.Contains(t, q.sql[0], "CREATE TABLE IF NOT EXISTS rendered_resumes")
}
