package news

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

type fakeRewarder struct {
	awards []string
}

func (f *fakeRewarder) Award(_ context.Context, _ uuid.UUID, action string) error {
	f.awards = append(f.awards, action)
	return nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *fakeRewarder) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rewarder := &fakeRewarder{}
	return NewService(NewRepository(&postgres.Client{DB: db}), rewarder), mock, rewarder
}

func articleColumns() []string {
	return []string{"id", "author_id", "title", "summary", "body", "cover_path", "published", "published_at", "created_at"}
}

func draftRow(id, authorID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows(articleColumns()).AddRow(
		id, authorID, "Feria del Caballo 2026", "resumen", "cuerpo",
		nil, false, nil, time.Now())
}

func TestGetDraftHiddenFromAnonymous(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, uuid.New()))

	_, err := svc.Get(context.Background(), articleID, listing.Anonymous())
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestGetDraftHiddenFromOtherMembers(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, uuid.New()))

	_, err := svc.Get(context.Background(), articleID, listing.OwnerOf(uuid.New()))
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestGetDraftVisibleToAuthor(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()
	authorID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, authorID))

	a, err := svc.Get(context.Background(), articleID, listing.OwnerOf(authorID))
	require.NoError(t, err)
	assert.False(t, a.Published)
}

func TestGetDraftVisibleToPrivileged(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, uuid.New()))

	_, err := svc.Get(context.Background(), articleID, listing.Privileged(uuid.New()))
	assert.NoError(t, err)
}

func TestUpdateByNonAuthor(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, uuid.New()))

	_, err := svc.Update(context.Background(), articleID, uuid.New(), false, &UpdateArticleRequest{Title: "Nuevo título"})
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()
	authorID := uuid.New()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, authorID))
	mock.ExpectExec("UPDATE articles").
		WithArgs(articleID, "Nuevo título", "resumen", "cuerpo", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	a, err := svc.Update(context.Background(), articleID, authorID, false, &UpdateArticleRequest{Title: "Nuevo título"})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo título", a.Title)
	assert.Equal(t, "resumen", a.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishAwardsAuthor(t *testing.T) {
	svc, mock, rewarder := newTestService(t)
	articleID := uuid.New()
	authorID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, authorID))
	mock.ExpectQuery("UPDATE articles").
		WithArgs(articleID).
		WillReturnRows(sqlmock.NewRows(articleColumns()).AddRow(
			articleID, authorID, "Feria del Caballo 2026", "resumen", "cuerpo",
			nil, true, now, now))

	a, err := svc.Publish(context.Background(), articleID, authorID, false)
	require.NoError(t, err)
	assert.True(t, a.Published)
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, []string{"article_published"}, rewarder.awards)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishByModerator(t *testing.T) {
	svc, mock, _ := newTestService(t)
	articleID := uuid.New()
	authorID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, author_id, title").
		WithArgs(articleID).
		WillReturnRows(draftRow(articleID, authorID))
	mock.ExpectQuery("UPDATE articles").
		WithArgs(articleID).
		WillReturnRows(sqlmock.NewRows(articleColumns()).AddRow(
			articleID, authorID, "Feria del Caballo 2026", "resumen", "cuerpo",
			nil, true, now, now))

	_, err := svc.Publish(context.Background(), articleID, uuid.New(), true)
	assert.NoError(t, err)
}
