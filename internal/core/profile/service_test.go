package profile

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(&postgres.Client{DB: db})), mock
}

func TestAwardAddsPointsAndKeepsLevel(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	mock.ExpectQuery("UPDATE users").
		WithArgs(userID, 5).
		WillReturnRows(sqlmock.NewRows([]string{"reputation"}).AddRow(45))
	mock.ExpectExec("UPDATE users SET level").
		WithArgs(userID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Award(context.Background(), userID, ActionPostCreated)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Crossing a level threshold also awards the level badge.
func TestAwardCrossingThresholdGrantsBadge(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	mock.ExpectQuery("UPDATE users").
		WithArgs(userID, 10).
		WillReturnRows(sqlmock.NewRows([]string{"reputation"}).AddRow(105))
	mock.ExpectExec("UPDATE users SET level").
		WithArgs(userID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_badges").
		WithArgs(sqlmock.AnyArg(), userID, "jinete").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Award(context.Background(), userID, ActionThreadCreated)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardUnknownActionIsNoop(t *testing.T) {
	svc, mock := newTestService(t)

	err := svc.Award(context.Background(), uuid.New(), "accion_inventada")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
