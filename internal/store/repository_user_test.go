package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

func pgError(code, message string) error {
	return &pgconn.PgError{Code: code, Message: message}
}

// ── sqlmock: postgres error mapping ──────────────────────────────────────────

func TestCreateUser_EmailUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation, `duplicate key value violates unique constraint "users_email_key"`))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "a@x.com", Role: models.RoleDeveloper})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UsernameUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation, `duplicate key value violates unique constraint "users_username_key"`))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "a@x.com", Role: models.RoleDeveloper})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "a@x.com", Role: models.RoleDeveloper})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateUser_PostgresPlaceholders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec(`INSERT INTO users \(id,email,username,phone,role,is_active,password_hash,created_at,updated_at,last_login_at,schema_version\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10,\$11\)`).
		WithArgs(sqlmock.AnyArg(), "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), "developer", true, "hash",
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil, currentUserSchema).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := repo.CreateUser(context.Background(), models.User{
		Email: "a@x.com", Role: models.RoleDeveloper, IsActive: true, PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, currentUserSchema, u.SchemaVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword_RetriesTransientErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE users SET").WillReturnError(pgError(pgerrcode.SerializationFailure, "could not serialize access"))
	mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "user-1", "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword_DoesNotRetryPermanentErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE users SET").WillReturnError(pgError(pgerrcode.SyntaxError, "syntax error"))

	err := repo.UpdatePassword(context.Background(), "user-1", "new-hash")
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUserByID_ScanError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1")) // wrong shape

	_, err := repo.FindUserByID(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrScanningRow)
}

// ── sqlite: behaviour ───────────────────────────────────────────────────────

func TestUserRepository_CreateAndFind(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()

	username := "alice"
	created, err := s.UserRepository.CreateUser(ctx, models.User{
		Email:        "a@x.com",
		Username:     &username,
		Role:         models.RoleDeveloper,
		IsActive:     true,
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	byID, err := s.UserRepository.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	require.NotNil(t, byID.Username)
	assert.Equal(t, "alice", *byID.Username)
	assert.Nil(t, byID.Phone)
	assert.Nil(t, byID.LastLoginAt)
	assert.Equal(t, "hash", byID.PasswordHash)
	assert.True(t, byID.IsActive)
	assert.WithinDuration(t, created.CreatedAt, byID.CreatedAt, time.Millisecond)

	byEmail, err := s.UserRepository.FindUserByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byName, err := s.UserRepository.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.UserRepository.FindUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_DuplicateEmailCreatesNothing(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()

	mustCreateUser(t, s.UserRepository, "a@x.com")

	_, err := s.UserRepository.CreateUser(ctx, models.User{Email: "a@x.com", Role: models.RoleDeveloper, PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	total, _, err := s.UserRepository.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()

	name := "alice"
	_, err := s.UserRepository.CreateUser(ctx, models.User{Email: "a@x.com", Username: &name, Role: models.RoleDeveloper, PasswordHash: "x"})
	require.NoError(t, err)

	_, err = s.UserRepository.CreateUser(ctx, models.User{Email: "b@x.com", Username: &name, Role: models.RoleDeveloper, PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestUserRepository_Updates(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()
	u := mustCreateUser(t, s.UserRepository, "a@x.com")

	require.NoError(t, s.UserRepository.UpdatePassword(ctx, u.ID, "new-hash"))

	loginAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UserRepository.UpdateLastLogin(ctx, u.ID, loginAt))

	suspended, err := s.UserRepository.SetUserActive(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, suspended.IsActive)
	assert.Equal(t, models.UserStatusSuspended, suspended.Status())
	assert.Equal(t, "new-hash", suspended.PasswordHash)
	require.NotNil(t, suspended.LastLoginAt)
	assert.True(t, loginAt.Equal(*suspended.LastLoginAt))

	assert.ErrorIs(t, s.UserRepository.UpdatePassword(ctx, "missing", "x"), ErrUserNotFound)
	_, err = s.UserRepository.SetUserActive(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	s, db := newSQLiteStorages(t)
	fixedClock(db, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first := mustCreateUser(t, s.UserRepository, "a@x.com")
	second := mustCreateUser(t, s.UserRepository, "b@x.com")
	third := mustCreateUser(t, s.UserRepository, "c@x.com")
	_, err := s.UserRepository.SetUserActive(ctx, second.ID, false)
	require.NoError(t, err)

	users, err := s.UserRepository.ListUsers(ctx, models.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, third.ID, users[0].ID, "newest first")
	assert.Equal(t, second.ID, users[1].ID)

	users, err = s.UserRepository.ListUsers(ctx, models.Page{Skip: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, first.ID, users[0].ID)

	total, active, err := s.UserRepository.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), active)
}

func TestUserRepository_UnknownSchemaVersion(t *testing.T) {
	s, db := newSQLiteStorages(t)
	u := mustCreateUser(t, s.UserRepository, "a@x.com")

	rawExec(t, db.DB, "UPDATE users SET schema_version = 9 WHERE id = ?", u.ID)

	_, err := s.UserRepository.FindUserByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrUnsupportedSchemaVersion)
}
