package news

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

func (r *Repository) Create(ctx context.Context, a *Article) error {
	query := `
		INSERT INTO articles (id, author_id, title, summary, body, cover_path, published)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		a.ID, a.AuthorID, a.Title, a.Summary, a.Body, a.CoverPath,
	).Scan(&a.CreatedAt)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Article, error) {
	query := `
		SELECT id, author_id, title, summary, body, cover_path, published, published_at, created_at
		FROM articles
		WHERE id = $1`

	return scanArticleRow(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *Repository) Update(ctx context.Context, a *Article) error {
	query := `
		UPDATE articles
		SET title = $2, summary = $3, body = $4, cover_path = $5
		WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, a.ID, a.Title, a.Summary, a.Body, a.CoverPath)
	return err
}

func (r *Repository) Publish(ctx context.Context, id uuid.UUID) (*Article, error) {
	query := `
		UPDATE articles
		SET published = true, published_at = now()
		WHERE id = $1
		RETURNING id, author_id, title, summary, body, cover_path, published, published_at, created_at`

	return scanArticleRow(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.DB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return err
}

func (r *Repository) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Article], error) {
	return listing.List(ctx, r.db.DB, ArticleResource, q, v, func(rows *sql.Rows) (*Article, error) {
		a := &Article{}
		var cover sql.NullString
		err := rows.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Summary, &a.Body,
			&cover, &a.Published, &a.PublishedAt, &a.CreatedAt)
		a.CoverPath = cover.String
		return a, err
	})
}

func scanArticleRow(row *sql.Row) (*Article, error) {
	a := &Article{}
	var cover sql.NullString
	err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Summary, &a.Body,
		&cover, &a.Published, &a.PublishedAt, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.CoverPath = cover.String
	return a, nil
}
