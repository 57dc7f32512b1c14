package moderation

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

func (r *Repository) CreateReport(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, target_type, target_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.DB.QueryRowContext(ctx, query,
		rep.ID, rep.ReporterID, rep.TargetType, rep.TargetID,
		rep.Reason, rep.Details, rep.Status,
	).Scan(&rep.CreatedAt)
}

func (r *Repository) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `
		SELECT id, reporter_id, target_type, target_id, reason, details, status, resolved_by, resolved_at, created_at
		FROM reports
		WHERE id = $1`

	rep := &Report{}
	var details sql.NullString
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&rep.ID, &rep.ReporterID, &rep.TargetType, &rep.TargetID, &rep.Reason,
		&details, &rep.Status, &rep.ResolvedBy, &rep.ResolvedAt, &rep.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rep.Details = details.String
	return rep, nil
}

func (r *Repository) CloseReport(ctx context.Context, id, moderatorID uuid.UUID, status string) error {
	query := `
		UPDATE reports
		SET status = $2, resolved_by = $3, resolved_at = now()
		WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, id, status, moderatorID)
	return err
}

func (r *Repository) ListReports(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Report], error) {
	return listing.List(ctx, r.db.DB, ReportResource, q, v, func(rows *sql.Rows) (*Report, error) {
		rep := &Report{}
		var details sql.NullString
		err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.TargetType, &rep.TargetID,
			&rep.Reason, &details, &rep.Status, &rep.ResolvedBy, &rep.ResolvedAt, &rep.CreatedAt)
		rep.Details = details.String
		return rep, err
	})
}

func (r *Repository) WriteAudit(ctx context.Context, entry *AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.EntityType,
		entry.EntityID, entry.IPAddress, entry.UserAgent,
	)
	return err
}

func (r *Repository) ListAudit(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*AuditLog], error) {
	return listing.List(ctx, r.db.DB, AuditResource, q, v, func(rows *sql.Rows) (*AuditLog, error) {
		e := &AuditLog{}
		var ip, ua sql.NullString
		err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID,
			&ip, &ua, &e.CreatedAt)
		e.IPAddress = ip.String
		e.UserAgent = ua.String
		return e, err
	})
}
