// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *httpAPIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPAPIClient(srv.URL+"/api/v1", 0, logger.Nop())
	require.NoError(t, err)
	return c.(*httpAPIClient)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ─────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "full url", raw: "https://pills.example.com/api/v1/", want: "https://pills.example.com/api/v1"},
		{name: "host and port", raw: "localhost:8000", want: "http://localhost:8000"},
		{name: "surrounding spaces", raw: "  http://127.0.0.1:8000 ", want: "http://127.0.0.1:8000"},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "no host", raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPAPIClient_InvalidAddress(t *testing.T) {
	c, err := NewHTTPAPIClient("", 0, logger.Nop())
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Nil(t, c)
}

// ─────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)

		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)

		writeJSON(t, w, http.StatusCreated, models.UserPublic{ID: "u-1", Email: req.Email, Role: models.RoleDeveloper})
	})

	user, err := c.Register(context.Background(), models.RegisterRequest{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Empty(t, c.Token())
}

func TestRegister_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, models.ErrorResponse{Detail: "email already registered"})
	})

	_, err := c.Register(context.Background(), models.RegisterRequest{Email: "alice@example.com"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestLogin_StoresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.Token{AccessToken: "tok-123", TokenType: "bearer", ExpiresIn: 1800})
	})

	token, err := c.Login(context.Background(), models.LoginRequest{Login: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token.AccessToken)
	assert.Equal(t, "tok-123", c.Token())
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, models.ErrorResponse{Detail: "invalid credentials"})
	})

	_, err := c.Login(context.Background(), models.LoginRequest{Login: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, c.Token())
}

func TestMe_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, models.UserPublic{ID: "u-1"})
	})
	c.SetToken(" tok-123 ")

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
}

func TestMe_PlainTextError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "http 502: upstream down", err.Error())
}

// ─────────────────────────────────────────────
// Agents
// ─────────────────────────────────────────────

func TestListAgents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents/", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("skip"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(t, w, http.StatusOK, []models.Agent{{ID: "a-1"}, {ID: "a-2"}})
	})

	agents, err := c.ListAgents(context.Background(), models.Page{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}

func TestCreateAgent_Validation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "name is required"})
	})

	_, err := c.CreateAgent(context.Background(), models.AgentCreate{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateAgent_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in models.AgentCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(t, w, http.StatusCreated, models.Agent{ID: "a-1", Name: in.Name, Status: models.AgentStatusPending})
	})

	agent, err := c.CreateAgent(context.Background(), models.AgentCreate{Name: "summarizer", CopyrightConfirmed: true})
	require.NoError(t, err)
	assert.Equal(t, "summarizer", agent.Name)
}

// ─────────────────────────────────────────────
// Files
// ─────────────────────────────────────────────

func TestUploadFile_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "a-1", r.FormValue("agent_id"))
		assert.Equal(t, "agent", r.FormValue("file_type"))

		part, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer part.Close()
		content, _ := io.ReadAll(part)
		assert.Equal(t, "bundle.zip", header.Filename)
		assert.Equal(t, "PK", string(content))

		writeJSON(t, w, http.StatusCreated, models.File{ID: "f-1", Filename: header.Filename, SizeBytes: int64(len(content))})
	})

	file, err := c.UploadFile(context.Background(), "bundle.zip", strings.NewReader("PK"), "a-1", "agent")
	require.NoError(t, err)
	assert.Equal(t, "f-1", file.ID)
	assert.EqualValues(t, 2, file.SizeBytes)
}

func TestUploadFile_TooLarge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Detail: "file too large"})
	})

	_, err := c.UploadFile(context.Background(), "big.zip", strings.NewReader("x"), "", "")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDownloadFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files/f-1/download", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename=notes.txt`)
		_, _ = w.Write([]byte("hello"))
	})

	var buf bytes.Buffer
	name, err := c.DownloadFile(context.Background(), "f-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", name)
	assert.Equal(t, "hello", buf.String())
}

func TestDownloadFile_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, models.ErrorResponse{Detail: "file not found"})
	})

	var buf bytes.Buffer
	_, err := c.DownloadFile(context.Background(), "f-404", &buf)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "file not found")
	assert.Zero(t, buf.Len())
}

func TestFilenameOf(t *testing.T) {
	assert.Equal(t, "a b.txt", filenameOf(`attachment; filename="a b.txt"`, "id"))
	assert.Equal(t, "id", filenameOf("", "id"))
	assert.Equal(t, "id", filenameOf("attachment", "id"))
}
