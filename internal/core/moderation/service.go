package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/listing"
)

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrInvalidTarget    = errors.New("invalid report target type")
	ErrReportClosed     = errors.New("report already closed")
	ErrInvalidReportFin = errors.New("invalid report resolution")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateReport(ctx context.Context, reporterID uuid.UUID, req *CreateReportRequest) (*Report, error) {
	if !validTarget(req.TargetType) {
		return nil, ErrInvalidTarget
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return nil, ErrInvalidTarget
	}

	rep := &Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   targetID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     ReportOpen,
	}
	if err := s.repo.CreateReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Close resolves or dismisses an open report.
func (s *Service) Close(ctx context.Context, reportID, moderatorID uuid.UUID, status string) (*Report, error) {
	if status != ReportResolved && status != ReportDismissed {
		return nil, ErrInvalidReportFin
	}

	rep, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	if rep.Status != ReportOpen {
		return nil, ErrReportClosed
	}

	if err := s.repo.CloseReport(ctx, reportID, moderatorID, status); err != nil {
		return nil, err
	}
	return s.repo.GetReport(ctx, reportID)
}

func (s *Service) ListReports(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Report], error) {
	return s.repo.ListReports(ctx, q, v)
}

// Audit records an admin/moderation action. Failures are logged, never
// propagated: audit must not break the action it describes.
func (s *Service) Audit(ctx context.Context, userID *uuid.UUID, action, entityType, entityID, ip, ua string) {
	entry := &AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
		UserAgent:  ua,
	}
	if err := s.repo.WriteAudit(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("audit write failed")
	}
}

func (s *Service) ListAudit(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*AuditLog], error) {
	return s.repo.ListAudit(ctx, q, v)
}

func validTarget(t string) bool {
	for _, tt := range TargetTypes {
		if tt == t {
			return true
		}
	}
	return false
}
