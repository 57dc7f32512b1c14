package profile

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	query := `
		SELECT id, display_name, bio, location, reputation, level, created_at
		FROM users
		WHERE id = $1 AND status = 'active'`

	p := &Profile{}
	var bio, location sql.NullString
	err := r.db.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.DisplayName, &bio, &location, &p.Reputation, &p.Level, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Bio = bio.String
	p.Location = location.String
	p.LevelName = LevelName(p.Level)

	badges, err := r.ListBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Badges = badges
	return p, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) error {
	query := `
		UPDATE users
		SET display_name = $2, bio = $3, location = $4
		WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, userID, req.DisplayName, req.Bio, req.Location)
	return err
}

// AddReputation bumps the user's total and returns the new value so the
// service can derive the level from one round trip.
func (r *Repository) AddReputation(ctx context.Context, userID uuid.UUID, points int) (int, error) {
	query := `
		UPDATE users
		SET reputation = reputation + $2
		WHERE id = $1
		RETURNING reputation`

	var total int
	err := r.db.DB.QueryRowContext(ctx, query, userID, points).Scan(&total)
	return total, err
}

func (r *Repository) SetLevel(ctx context.Context, userID uuid.UUID, level int) error {
	query := `UPDATE users SET level = $2 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, userID, level)
	return err
}

// AwardBadge is idempotent: awarding the same badge twice is a no-op.
func (r *Repository) AwardBadge(ctx context.Context, userID uuid.UUID, code string) error {
	query := `
		INSERT INTO user_badges (id, user_id, code)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, code) DO NOTHING`

	_, err := r.db.DB.ExecContext(ctx, query, uuid.New(), userID, code)
	return err
}

func (r *Repository) ListBadges(ctx context.Context, userID uuid.UUID) ([]*Badge, error) {
	query := `
		SELECT id, user_id, code, awarded_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY awarded_at ASC`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]*Badge, 0, 4)
	for rows.Next() {
		b := &Badge{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Code, &b.AwardedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
