package halloffame

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hablandodecaballos/backend/internal/listing"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

// ErrDuplicateVote maps the unique (horse_id, user_id) violation.
var ErrDuplicateVote = errors.New("duplicate vote")

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateHorse(ctx context.Context, h *Horse) error {
	query := `
		INSERT INTO horses (id, name, breed, discipline, description, photo_path, status, nominated_by, vote_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		h.ID, h.Name, h.Breed, h.Discipline, h.Description,
		h.PhotoPath, h.Status, h.NominatedBy,
	).Scan(&h.CreatedAt)
}

func (r *Repository) GetHorse(ctx context.Context, id uuid.UUID) (*Horse, error) {
	query := `
		SELECT id, name, breed, discipline, description, photo_path, status, nominated_by, vote_count, created_at
		FROM horses
		WHERE id = $1`

	h := &Horse{}
	var photo sql.NullString
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.Name, &h.Breed, &h.Discipline, &h.Description,
		&photo, &h.Status, &h.NominatedBy, &h.VoteCount, &h.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.PhotoPath = photo.String
	return h, nil
}

// AddVote records the vote and returns the new count. A repeat vote by the
// same user surfaces as ErrDuplicateVote.
func (r *Repository) AddVote(ctx context.Context, horseID, userID uuid.UUID) (int, error) {
	insert := `INSERT INTO horse_votes (horse_id, user_id) VALUES ($1, $2)`
	if _, err := r.db.DB.ExecContext(ctx, insert, horseID, userID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicateVote
		}
		return 0, err
	}

	bump := `
		UPDATE horses
		SET vote_count = vote_count + 1
		WHERE id = $1
		RETURNING vote_count`

	var count int
	err := r.db.DB.QueryRowContext(ctx, bump, horseID).Scan(&count)
	return count, err
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE horses SET status = $2 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, status)
	return err
}

func (r *Repository) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Horse], error) {
	return listing.List(ctx, r.db.DB, HorseResource, q, v, func(rows *sql.Rows) (*Horse, error) {
		h := &Horse{}
		var photo sql.NullString
		err := rows.Scan(&h.ID, &h.Name, &h.Breed, &h.Discipline, &h.Description,
			&photo, &h.Status, &h.NominatedBy, &h.VoteCount, &h.CreatedAt)
		h.PhotoPath = photo.String
		return h, err
	})
}
