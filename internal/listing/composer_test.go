package listing

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type horseRow struct {
	ID   string
	Name string
}

func scanHorse(rows *sql.Rows) (horseRow, error) {
	var h horseRow
	err := rows.Scan(&h.ID, &h.Name)
	return h, err
}

func horseResource() Resource {
	return Resource{
		Table:   "horses",
		Columns: []string{"id", "name"},
		Filters: map[string]FilterSpec{
			"breed":  {Kind: Equals, Column: "breed"},
			"q":      {Kind: Substring, Columns: []string{"name", "description"}},
			"status": {Kind: SetMembership, Column: "status"},
			"votes":  {Kind: Range, Column: "vote_count"},
		},
		SortFields:   map[string]string{"created": "created_at", "votes": "vote_count"},
		DefaultSort:  "created",
		DefaultOrder: "desc",
		DefaultLimit: 20,
		MaxLimit:     50,
		PublicColumn: "is_public",
		OwnerColumn:  "owner_id",
		TieBreak:     "id",
	}
}

// The count goroutine races the row query, so expectations cannot be ordered.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func horseRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name"})
	for _, id := range ids {
		rows.AddRow(id, "caballo "+id)
	}
	return rows
}

func TestListAnonymousSeesPublicRowsOnly(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses WHERE is_public = true").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT id, name FROM horses WHERE is_public = true ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(20, 0).
		WillReturnRows(horseRows("a", "b"))

	page, err := List(context.Background(), db, horseResource(), Query{}, Anonymous(), scanHorse)
	require.NoError(t, err)
	require.NotNil(t, page.Total)
	assert.Equal(t, 5, *page.Total)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnerSeesPublicAndOwnRows(t *testing.T) {
	db, mock := newMock(t)
	ownerID := uuid.New()

	mock.ExpectQuery("SELECT COUNT(*) FROM horses WHERE (is_public = true OR owner_id = $1)").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name FROM horses WHERE (is_public = true OR owner_id = $1) ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3").
		WithArgs(ownerID, 20, 0).
		WillReturnRows(horseRows("a"))

	page, err := List(context.Background(), db, horseResource(), Query{}, OwnerOf(ownerID), scanHorse)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPrivilegedSeesEverything(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, name FROM horses ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(20, 0).
		WillReturnRows(horseRows("a", "b"))

	_, err := List(context.Background(), db, horseResource(), Query{}, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersShareWhereClauseWithCount(t *testing.T) {
	db, mock := newMock(t)

	where := " WHERE breed = $1 AND (name ILIKE $2 OR description ILIKE $2) AND status = ANY($3) AND vote_count >= $4"
	mock.ExpectQuery("SELECT COUNT(*) FROM horses" + where).
		WithArgs("pre", "%bai%", pq.Array([]string{"nominado", "consagrado"}), 10.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name FROM horses" + where + " ORDER BY vote_count ASC, id ASC LIMIT $5 OFFSET $6").
		WithArgs("pre", "%bai%", pq.Array([]string{"nominado", "consagrado"}), 10.0, 20, 0).
		WillReturnRows(horseRows("a"))

	q := Query{
		Filters: map[string]string{
			"breed":     "pre",
			"q":         "bai",
			"status":    "nominado, consagrado",
			"votes_min": "10",
			"votes_max": "not-a-number",
		},
		SortBy:    "votes",
		SortOrder: "asc",
	}
	_, err := List(context.Background(), db, horseResource(), q, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A search term containing ILIKE metacharacters matches literally.
func TestListSubstringEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)

	where := " WHERE is_public = true AND (name ILIKE $1 OR description ILIKE $1)"
	mock.ExpectQuery("SELECT COUNT(*) FROM horses" + where).
		WithArgs(`%50\%\_pura\\sangre%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, name FROM horses" + where + " ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3").
		WithArgs(`%50\%\_pura\\sangre%`, 20, 0).
		WillReturnRows(horseRows())

	q := Query{Filters: map[string]string{"q": `50%_pura\sangre`}}
	_, err := List(context.Background(), db, horseResource(), q, Anonymous(), scanHorse)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnknownSortFallsBackToDefault(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, name FROM horses ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(20, 0).
		WillReturnRows(horseRows())

	q := Query{SortBy: "; DROP TABLE horses", SortOrder: "sideways"}
	_, err := List(context.Background(), db, horseResource(), q, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClampsLimitAndOffset(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, name FROM horses ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(50, 0).
		WillReturnRows(horseRows())

	page, err := List(context.Background(), db, horseResource(), Query{Limit: 500, Offset: -3}, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOffsetPastTotalReturnsEmptyPage(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT id, name FROM horses ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(20, 100).
		WillReturnRows(horseRows())

	page, err := List(context.Background(), db, horseResource(), Query{Offset: 100}, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	require.NotNil(t, page.Total)
	assert.Equal(t, 5, *page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCountFailureDegradesToNilTotal(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM horses").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery("SELECT id, name FROM horses ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2").
		WithArgs(2, 0).
		WillReturnRows(horseRows("a", "b"))

	page, err := List(context.Background(), db, horseResource(), Query{Limit: 2}, Privileged(uuid.New()), scanHorse)
	require.NoError(t, err)
	assert.Nil(t, page.Total)
	// A full page with no count is assumed to have more.
	assert.True(t, page.HasMore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnerOnlyResourceFailsClosedForAnonymous(t *testing.T) {
	db, mock := newMock(t)

	res := horseResource()
	res.PublicColumn = ""

	page, err := List(context.Background(), db, res, Query{}, Anonymous(), scanHorse)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	require.NotNil(t, page.Total)
	assert.Equal(t, 0, *page.Total)
	assert.False(t, page.HasMore)
	// No query may reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnerOnlyResourceScopesToOwner(t *testing.T) {
	db, mock := newMock(t)
	ownerID := uuid.New()

	res := horseResource()
	res.PublicColumn = ""

	mock.ExpectQuery("SELECT COUNT(*) FROM horses WHERE owner_id = $1").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name FROM horses WHERE owner_id = $1 ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3").
		WithArgs(ownerID, 20, 0).
		WillReturnRows(horseRows("a"))

	_, err := List(context.Background(), db, res, Query{}, OwnerOf(ownerID), scanHorse)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMinViewerGate(t *testing.T) {
	db, mock := newMock(t)

	res := horseResource()
	res.MinViewer = ViewerPrivileged

	_, err := List(context.Background(), db, res, Query{}, OwnerOf(uuid.New()), scanHorse)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = List(context.Background(), db, res, Query{}, Anonymous(), scanHorse)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTimeRangeBounds(t *testing.T) {
	db, mock := newMock(t)

	res := Resource{
		Table:   "articles",
		Columns: []string{"id", "title"},
		Filters: map[string]FilterSpec{
			"published": {Kind: Range, Column: "published_at", Time: true},
		},
		SortFields:   map[string]string{"published": "published_at"},
		DefaultSort:  "published",
		DefaultOrder: "desc",
		TieBreak:     "id",
	}

	min, err := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	require.NoError(t, err)

	where := " WHERE published_at >= $1"
	mock.ExpectQuery("SELECT COUNT(*) FROM articles" + where).
		WithArgs(min).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, title FROM articles" + where + " ORDER BY published_at DESC, id ASC LIMIT $2 OFFSET $3").
		WithArgs(min, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	q := Query{Filters: map[string]string{
		"published_min": "2026-01-01T00:00:00Z",
		"published_max": "yesterday",
	}}
	_, err = List(context.Background(), db, res, q, Anonymous(), func(rows *sql.Rows) (horseRow, error) {
		var h horseRow
		return h, rows.Scan(&h.ID, &h.Name)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
