package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/service"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

const (
	testPassword    = "s3cret-pass"
	testMaxFileSize = 1024
)

// testAPI is the full router over a fresh SQLite database and a local
// upload directory.
type testAPI struct {
	t      *testing.T
	server *httptest.Server
	dsn    string
	files  string
}

func testConfig(t *testing.T) config.StructuredConfig {
	t.Helper()
	dir := t.TempDir()

	return config.StructuredConfig{
		App: config.App{
			Name:        "AI Pills",
			Version:     "1.2.3",
			Environment: config.EnvTesting,
		},
		Auth: config.Auth{
			TokenSignKey:             "test-secret",
			Algorithm:                "HS256",
			TokenIssuer:              "ai-pills-test",
			AccessTokenExpireMinutes: 30,
			ResetTokenTTL:            config.Duration(time.Hour),
			PasswordMinLength:        8,
			BcryptCost:               4,
		},
		Storage: config.Storage{
			DB: config.DB{
				Driver: config.DriverSQLite,
				DSN:    "file:" + filepath.Join(dir, "test.db") + "?_foreign_keys=on&_busy_timeout=5000",
			},
			Files: config.Files{
				Backend:                  config.BackendLocal,
				BasePath:                 filepath.Join(dir, "uploads"),
				AgentsSubpath:            "agents",
				GeneralSubpath:           "general",
				TempSubpath:              "temp",
				MaxFileSize:              testMaxFileSize,
				AllowedArchiveExtensions: []string{".zip", ".tar.gz"},
			},
		},
		Server: config.Server{
			APIPrefix:   "/api/v1",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Agents: config.Agents{
			MaxPerUser:           5,
			MaxTags:              5,
			NameMaxLength:        50,
			DescriptionMaxLength: 500,
		},
	}
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithConfig(t, testConfig(t))
}

func newTestAPIWithConfig(t *testing.T, cfg config.StructuredConfig) *testAPI {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })

	files, err := filestore.New(ctx, cfg.Storage.Files, log)
	require.NoError(t, err)

	services, err := service.NewServices(storages, files, cfg, log)
	require.NoError(t, err)

	server := httptest.NewServer(NewHandler(services, cfg, log).Init())
	t.Cleanup(server.Close)

	return &testAPI{t: t, server: server, dsn: cfg.Storage.DB.DSN, files: cfg.Storage.Files.BasePath}
}

// do sends body as JSON unless it already is an io.Reader.
func (a *testAPI) do(method, path, token string, body any) *http.Response {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func detail(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[models.ErrorResponse](t, resp).Detail
}

// register creates an account and returns a session token for it.
func (a *testAPI) register(email string) (models.UserPublic, string) {
	a.t.Helper()

	resp := a.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{Email: email, Password: testPassword})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	user := decode[models.UserPublic](a.t, resp)

	return user, a.login(email, testPassword)
}

func (a *testAPI) login(login, password string) string {
	a.t.Helper()

	resp := a.do(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Login: login, Password: password})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	return decode[models.Token](a.t, resp).AccessToken
}

// registerAdmin registers a user and promotes it directly in the database.
// The session token stays valid because roles are loaded per request.
func (a *testAPI) registerAdmin(email string) (models.UserPublic, string) {
	a.t.Helper()

	user, token := a.register(email)
	a.exec("UPDATE users SET role = ? WHERE id = ?", string(models.RoleAdmin), user.ID)
	return user, token
}

func (a *testAPI) exec(query string, args ...any) {
	a.t.Helper()

	db, err := sql.Open(config.DriverSQLite, a.dsn)
	require.NoError(a.t, err)
	defer db.Close()

	_, err = db.Exec(query, args...)
	require.NoError(a.t, err)
}

func (a *testAPI) createAgent(token string, mutate func(*models.AgentCreate)) models.Agent {
	a.t.Helper()

	in := models.AgentCreate{
		Name:               "Summarizer",
		Description:        "summarizes long documents",
		Visibility:         models.VisibilityPublic,
		Tags:               []string{"nlp"},
		AgentType:          "assistant",
		Category:           "productivity",
		CopyrightConfirmed: true,
	}
	if mutate != nil {
		mutate(&in)
	}

	resp := a.do(http.MethodPost, "/api/v1/agents", token, in)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[models.Agent](a.t, resp)
}
