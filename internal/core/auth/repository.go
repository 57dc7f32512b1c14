package auth

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

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, role, status, reputation, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName,
		user.Role, user.Status, user.Reputation, user.Level,
	).Scan(&user.CreatedAt)
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, role, status, reputation, level, created_at
		FROM users
		WHERE id = $1`

	return scanUserRow(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, display_name, role, status, reputation, level, created_at
		FROM users
		WHERE lower(email) = lower($1)`

	return scanUserRow(r.db.DB.QueryRowContext(ctx, query, email))
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE users SET status = $2 WHERE id = $1`
	res, err := r.db.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`
	res, err := r.db.DB.ExecContext(ctx, query, id, role)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// List runs the admin user listing through the shared composer.
func (r *Repository) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*User], error) {
	return listing.List(ctx, r.db.DB, UserResource, q, v, func(rows *sql.Rows) (*User, error) {
		u := &User{}
		err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.Status,
			&u.Reputation, &u.Level, &u.CreatedAt)
		return u, err
	})
}

func scanUserRow(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.Role, &u.Status, &u.Reputation, &u.Level, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
