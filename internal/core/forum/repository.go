package forum

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateThread(ctx context.Context, t *Thread) error {
	query := `
		INSERT INTO threads (id, author_id, title, body, category, pinned, locked, reply_count, last_post_at)
		VALUES ($1, $2, $3, $4, $5, false, false, 0, now())
		RETURNING last_post_at, created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		t.ID, t.AuthorID, t.Title, t.Body, t.Category,
	).Scan(&t.LastPostAt, &t.CreatedAt)
}

func (r *Repository) GetThread(ctx context.Context, id uuid.UUID) (*Thread, error) {
	query := `
		SELECT id, author_id, title, body, category, pinned, locked, reply_count, last_post_at, created_at
		FROM threads
		WHERE id = $1`

	t := &Thread{}
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.AuthorID, &t.Title, &t.Body, &t.Category,
		&t.Pinned, &t.Locked, &t.ReplyCount, &t.LastPostAt, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) SetThreadFlags(ctx context.Context, id uuid.UUID, pinned, locked bool) error {
	query := `UPDATE threads SET pinned = $2, locked = $3 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, pinned, locked)
	return err
}

func (r *Repository) CreatePost(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (id, thread_id, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := r.db.DB.QueryRowContext(ctx, query,
		p.ID, p.ThreadID, p.AuthorID, p.Body,
	).Scan(&p.CreatedAt); err != nil {
		return err
	}

	bump := `
		UPDATE threads
		SET reply_count = reply_count + 1, last_post_at = now()
		WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, bump, p.ThreadID)
	return err
}

func (r *Repository) ListThreads(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Thread], error) {
	return listing.List(ctx, r.db.DB, ThreadResource, q, v, func(rows *sql.Rows) (*Thread, error) {
		t := &Thread{}
		err := rows.Scan(&t.ID, &t.AuthorID, &t.Title, &t.Body, &t.Category,
			&t.Pinned, &t.Locked, &t.ReplyCount, &t.LastPostAt, &t.CreatedAt)
		return t, err
	})
}

func (r *Repository) ListPosts(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Post], error) {
	return listing.List(ctx, r.db.DB, PostResource, q, v, func(rows *sql.Rows) (*Post, error) {
		p := &Post{}
		err := rows.Scan(&p.ID, &p.ThreadID, &p.AuthorID, &p.Body, &p.CreatedAt)
		return p, err
	})
}
