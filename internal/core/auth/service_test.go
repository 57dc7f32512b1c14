package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hablandodecaballos/backend/config"
	"github.com/hablandodecaballos/backend/internal/storage/postgres"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(&postgres.Client{DB: db})
	svc := NewService(repo, &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	return svc, mock
}

func userColumns() []string {
	return []string{"id", "email", "password_hash", "display_name", "role", "status", "reputation", "level", "created_at"}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterCreatesMember(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nuevo@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:       "nuevo@caballos.es",
		Password:    "contraseña-larga",
		DisplayName: "Nuevo Jinete",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleMember, resp.User.Role)
	assert.Equal(t, StatusActive, resp.User.Status)
	assert.Equal(t, 1, resp.User.Level)
	assert.NotEmpty(t, resp.Token)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs(resp.User.ID).
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			resp.User.ID, resp.User.Email, "hash", resp.User.DisplayName,
			RoleMember, StatusActive, 0, 1, time.Now()))

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, RoleMember, claims.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("existente@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			uuid.New(), "existente@caballos.es", "hash", "Alguien",
			RoleMember, StatusActive, 0, 1, time.Now()))

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:       "existente@caballos.es",
		Password:    "contraseña-larga",
		DisplayName: "Otro",
	})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("socia@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			userID, "socia@caballos.es", hashPassword(t, "secreta12"), "Socia",
			RoleModerator, StatusActive, 40, 2, time.Now()))

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "socia@caballos.es",
		Password: "secreta12",
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			userID, "socia@caballos.es", "hash", "Socia",
			RoleModerator, StatusActive, 40, 2, time.Now()))

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleModerator, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("socia@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			uuid.New(), "socia@caballos.es", hashPassword(t, "secreta12"), "Socia",
			RoleMember, StatusActive, 0, 1, time.Now()))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "socia@caballos.es",
		Password: "equivocada",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nadie@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nadie@caballos.es",
		Password: "loquesea",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBannedUser(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("vetado@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			uuid.New(), "vetado@caballos.es", hashPassword(t, "secreta12"), "Vetado",
			RoleMember, StatusBanned, 0, 1, time.Now()))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "vetado@caballos.es",
		Password: "secreta12",
	})
	assert.ErrorIs(t, err, ErrUserBanned)
}

// A wrong password on a banned account must not reveal the ban.
func TestLoginBannedUserWrongPassword(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("vetado@caballos.es").
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			uuid.New(), "vetado@caballos.es", hashPassword(t, "secreta12"), "Vetado",
			RoleMember, StatusBanned, 0, 1, time.Now()))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "vetado@caballos.es",
		Password: "equivocada",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, _ := newTestService(t)

	otherDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer otherDB.Close()
	other := NewService(NewRepository(&postgres.Client{DB: otherDB}),
		&config.JWTConfig{Secret: "another-secret", ExpirationHours: 1})

	token, err := other.generateToken(&User{ID: uuid.New(), Email: "x@y.es", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

// Banning revokes tokens issued before the ban.
func TestValidateTokenRejectsBannedUser(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	token, err := svc.generateToken(&User{ID: userID, Email: "vetado@caballos.es", Role: RoleMember})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			userID, "vetado@caballos.es", "hash", "Vetado",
			RoleMember, StatusBanned, 0, 1, time.Now()))

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserBanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateTokenRejectsDeletedUser(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	token, err := svc.generateToken(&User{ID: userID, Email: "borrado@caballos.es", Role: RoleMember})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Demotion applies to live tokens: the role comes from the row, not the claim.
func TestValidateTokenRefreshesRole(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	token, err := svc.generateToken(&User{ID: userID, Email: "ex@caballos.es", Role: RoleModerator})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(
			userID, "ex@caballos.es", "hash", "Ex Moderadora",
			RoleMember, StatusActive, 0, 1, time.Now()))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, claims.Role)
}

func TestSetUserRoleValidatesRole(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.SetUserRole(context.Background(), uuid.New(), "emperador")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserStatusMissingUser(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()

	mock.ExpectExec("UPDATE users SET status").
		WithArgs(userID, StatusBanned).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.SetUserStatus(context.Background(), userID, StatusBanned)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
