package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hablandodecaballos/backend/internal/listing"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(&postgres.Client{DB: db})), mock
}

func reportColumns() []string {
	return []string{
		"id", "reporter_id", "target_type", "target_id", "reason",
		"details", "status", "resolved_by", "resolved_at", "created_at",
	}
}

func openReportRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows(reportColumns()).AddRow(
		id, uuid.New(), "post", uuid.New(), "spam",
		nil, ReportOpen, nil, nil, time.Now())
}

func TestCreateReport(t *testing.T) {
	svc, mock := newTestService(t)
	reporterID := uuid.New()
	targetID := uuid.New()

	mock.ExpectQuery("INSERT INTO reports").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rep, err := svc.CreateReport(context.Background(), reporterID, &CreateReportRequest{
		TargetType: "post",
		TargetID:   targetID.String(),
		Reason:     "spam",
	})
	require.NoError(t, err)
	assert.Equal(t, ReportOpen, rep.Status)
	assert.Equal(t, targetID, rep.TargetID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReportInvalidTargetType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateReport(context.Background(), uuid.New(), &CreateReportRequest{
		TargetType: "galaxia",
		TargetID:   uuid.New().String(),
		Reason:     "spam",
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestCreateReportMalformedTargetID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateReport(context.Background(), uuid.New(), &CreateReportRequest{
		TargetType: "post",
		TargetID:   "no-es-un-uuid",
		Reason:     "spam",
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestCloseResolvesOpenReport(t *testing.T) {
	svc, mock := newTestService(t)
	reportID := uuid.New()
	moderatorID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, reporter_id").
		WithArgs(reportID).
		WillReturnRows(openReportRow(reportID))
	mock.ExpectExec("UPDATE reports").
		WithArgs(reportID, ReportResolved, moderatorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, reporter_id").
		WithArgs(reportID).
		WillReturnRows(sqlmock.NewRows(reportColumns()).AddRow(
			reportID, uuid.New(), "post", uuid.New(), "spam",
			nil, ReportResolved, moderatorID, now, now))

	rep, err := svc.Close(context.Background(), reportID, moderatorID, ReportResolved)
	require.NoError(t, err)
	assert.Equal(t, ReportResolved, rep.Status)
	require.NotNil(t, rep.ResolvedBy)
	assert.Equal(t, moderatorID, *rep.ResolvedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAlreadyClosedReport(t *testing.T) {
	svc, mock := newTestService(t)
	reportID := uuid.New()

	mock.ExpectQuery("SELECT id, reporter_id").
		WithArgs(reportID).
		WillReturnRows(sqlmock.NewRows(reportColumns()).AddRow(
			reportID, uuid.New(), "post", uuid.New(), "spam",
			nil, ReportDismissed, uuid.New(), time.Now(), time.Now()))

	_, err := svc.Close(context.Background(), reportID, uuid.New(), ReportResolved)
	assert.ErrorIs(t, err, ErrReportClosed)
}

func TestCloseMissingReport(t *testing.T) {
	svc, mock := newTestService(t)
	reportID := uuid.New()

	mock.ExpectQuery("SELECT id, reporter_id").
		WithArgs(reportID).
		WillReturnRows(sqlmock.NewRows(reportColumns()))

	_, err := svc.Close(context.Background(), reportID, uuid.New(), ReportDismissed)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestCloseRejectsInvalidResolution(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Close(context.Background(), uuid.New(), uuid.New(), "archivado")
	assert.ErrorIs(t, err, ErrInvalidReportFin)
}

func TestListReportsRequiresPrivilege(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListReports(context.Background(), listing.Query{}, listing.OwnerOf(uuid.New()))
	assert.ErrorIs(t, err, listing.ErrPermissionDenied)
}

// Audit swallows storage failures so the moderated action still succeeds.
func TestAuditSurvivesWriteFailure(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(assert.AnError)

	svc.Audit(context.Background(), &userID, "user_banned", "user", uuid.New().String(), "10.0.0.1", "test-agent")
	assert.NoError(t, mock.ExpectationsWereMet())
}
