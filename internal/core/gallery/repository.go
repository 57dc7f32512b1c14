package gallery

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

func (r *Repository) CreateAlbum(ctx context.Context, a *Album) error {
	query := `
		INSERT INTO albums (id, owner_id, title, description, is_public, media_count)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		a.ID, a.OwnerID, a.Title, a.Description, a.IsPublic,
	).Scan(&a.CreatedAt)
}

func (r *Repository) GetAlbum(ctx context.Context, id uuid.UUID) (*Album, error) {
	query := `
		SELECT id, owner_id, title, description, is_public, media_count, created_at
		FROM albums
		WHERE id = $1`

	a := &Album{}
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Description, &a.IsPublic, &a.MediaCount, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) CreateMedia(ctx context.Context, m *Media) error {
	query := `
		INSERT INTO media (id, album_id, owner_id, file_path, content_type, caption, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if err := r.db.DB.QueryRowContext(ctx, query,
		m.ID, m.AlbumID, m.OwnerID, m.FilePath, m.ContentType, m.Caption, m.IsPublic,
	).Scan(&m.CreatedAt); err != nil {
		return err
	}

	bump := `UPDATE albums SET media_count = media_count + 1 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, bump, m.AlbumID)
	return err
}

func (r *Repository) ListAlbums(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Album], error) {
	return listing.List(ctx, r.db.DB, AlbumResource, q, v, func(rows *sql.Rows) (*Album, error) {
		a := &Album{}
		err := rows.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Description,
			&a.IsPublic, &a.MediaCount, &a.CreatedAt)
		return a, err
	})
}

func (r *Repository) ListMedia(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Media], error) {
	return listing.List(ctx, r.db.DB, MediaResource, q, v, func(rows *sql.Rows) (*Media, error) {
		m := &Media{}
		err := rows.Scan(&m.ID, &m.AlbumID, &m.OwnerID, &m.FilePath,
			&m.ContentType, &m.Caption, &m.IsPublic, &m.CreatedAt)
		return m, err
	})
}
