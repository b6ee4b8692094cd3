package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

// newSQLiteStorages returns migrated repositories over a fresh SQLite file.
func newSQLiteStorages(t *testing.T) (*Storages, *DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	ctx := context.Background()

	db, err := NewConnectSQLite(ctx, config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))

	return NewStoragesFromDB(db, logger.Nop()), db
}

// newMockDB returns a postgres-flavoured DB over sqlmock.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return newDB(conn, config.DriverPostgres, NewPostgresErrorClassifier(), logger.Nop()), mock
}

// fixedClock makes the store's timestamps deterministic and strictly
// increasing.
func fixedClock(db *DB, start time.Time) {
	current := start
	db.now = func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func mustCreateUser(t *testing.T, repo UserRepository, email string) models.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), models.User{
		Email:        email,
		Role:         models.RoleDeveloper,
		IsActive:     true,
		PasswordHash: "$2a$04$hash",
	})
	require.NoError(t, err)
	return u
}

func mustCreateAgent(t *testing.T, repo AgentRepository, owner string, mutate func(*models.Agent)) models.Agent {
	t.Helper()
	a := models.Agent{
		Name:               "agent",
		Description:        "does things",
		Visibility:         models.VisibilityPublic,
		Tags:               []string{"nlp"},
		AgentType:          "assistant",
		Category:           "productivity",
		IsActive:           true,
		CopyrightConfirmed: true,
		Status:             models.AgentStatusApproved,
		CreatedBy:          owner,
	}
	if mutate != nil {
		mutate(&a)
	}
	created, err := repo.CreateAgent(context.Background(), a)
	require.NoError(t, err)
	return created
}

func rawExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}
