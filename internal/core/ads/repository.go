package ads

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

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

func (r *Repository) Create(ctx context.Context, ad *Ad) error {
	attrs, err := json.Marshal(ad.Attributes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ads (id, owner_id, title, description, price, category, province, status, attributes, is_public, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		ad.ID, ad.OwnerID, ad.Title, ad.Description, ad.Price, ad.Category,
		ad.Province, ad.Status, attrs, ad.IsPublic, ad.ExpiresAt,
	).Scan(&ad.CreatedAt)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Ad, error) {
	query := `
		SELECT id, owner_id, title, description, price, category, province, status, attributes, is_public, created_at, expires_at
		FROM ads
		WHERE id = $1`

	ad := &Ad{}
	var attrs []byte
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price, &ad.Category,
		&ad.Province, &ad.Status, &attrs, &ad.IsPublic, &ad.CreatedAt, &ad.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		json.Unmarshal(attrs, &ad.Attributes)
	}
	return ad, nil
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string, public bool) error {
	query := `UPDATE ads SET status = $2, is_public = $3 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, status, public)
	return err
}

// ExpireOlderThan flips still-active ads whose expiry passed; run from the
// admin panel rather than a background job.
func (r *Repository) ExpireOlderThan(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE ads
		SET status = $2, is_public = false
		WHERE status = $3 AND expires_at IS NOT NULL AND expires_at < $1`

	res, err := r.db.DB.ExecContext(ctx, query, now, StatusExpirado, StatusActivo)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Ad], error) {
	return listing.List(ctx, r.db.DB, AdResource, q, v, func(rows *sql.Rows) (*Ad, error) {
		ad := &Ad{}
		var attrs []byte
		err := rows.Scan(&ad.ID, &ad.OwnerID, &ad.Title, &ad.Description, &ad.Price,
			&ad.Category, &ad.Province, &ad.Status, &attrs, &ad.IsPublic,
			&ad.CreatedAt, &ad.ExpiresAt)
		if err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			json.Unmarshal(attrs, &ad.Attributes)
		}
		return ad, nil
	})
}
