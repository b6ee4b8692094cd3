package http

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/models"
)

type uploadForm struct {
	filename    string
	contentType string
	content     []byte
	fileType    string
	agentID     string
}

func (a *testAPI) upload(token string, form uploadForm) *http.Response {
	a.t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+form.filename+`"`)
	if form.contentType != "" {
		header.Set("Content-Type", form.contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(a.t, err)
	_, err = part.Write(form.content)
	require.NoError(a.t, err)

	if form.fileType != "" {
		require.NoError(a.t, mw.WriteField("file_type", form.fileType))
	}
	if form.agentID != "" {
		require.NoError(a.t, mw.WriteField("agent_id", form.agentID))
	}
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/api/v1/files", &body)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ─────────────────────────────────────────────
// upload
// ─────────────────────────────────────────────

func TestUploadFile(t *testing.T) {
	api := newTestAPI(t)
	user, token := api.register("dev@example.com")
	agent := api.createAgent(token, nil)

	resp := api.upload(token, uploadForm{
		filename:    "bundle.zip",
		contentType: "application/zip",
		content:     []byte("PK archive"),
		agentID:     agent.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	file := decode[models.File](t, resp)
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "bundle.zip", file.Filename)
	assert.Equal(t, "application/zip", file.ContentType)
	assert.Equal(t, int64(len("PK archive")), file.SizeBytes)
	assert.Equal(t, "local", file.StorageType)
	assert.Equal(t, "agents", file.FileType)
	assert.Equal(t, "/uploads/agents/"+user.ID+"/bundle.zip", file.URL)
	require.NotNil(t, file.AgentID)
	assert.Equal(t, agent.ID, *file.AgentID)

	stored, err := os.ReadFile(file.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "PK archive", string(stored))

	// served statically from the upload tree
	served := api.do(http.MethodGet, file.URL, "", nil)
	require.Equal(t, http.StatusOK, served.StatusCode)
	raw, err := io.ReadAll(served.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK archive", string(raw))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/uploads/agents/", "", nil).StatusCode)
}

func TestUploadFile_Rejects(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("dev@example.com")
	_, other := api.register("other@example.com")
	foreign := api.createAgent(other, nil)

	tests := []struct {
		name   string
		form   uploadForm
		status int
	}{
		{"bad archive extension", uploadForm{filename: "bundle.rar", content: []byte("x")}, http.StatusBadRequest},
		{"empty file", uploadForm{filename: "bundle.zip", content: nil}, http.StatusUnprocessableEntity},
		{"too large", uploadForm{filename: "bundle.zip", content: bytes.Repeat([]byte("x"), testMaxFileSize+1)}, http.StatusRequestEntityTooLarge},
		{"foreign agent", uploadForm{filename: "bundle.zip", content: []byte("x"), agentID: foreign.ID}, http.StatusForbidden},
		{"unknown agent", uploadForm{filename: "bundle.zip", content: []byte("x"), agentID: "missing"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.upload(token, tt.form)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, detail(t, resp))
		})
	}
}

func TestUploadFile_BodyOverLimit(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("dev@example.com")

	resp := api.upload(token, uploadForm{
		filename: "huge.zip",
		content:  bytes.Repeat([]byte("x"), testMaxFileSize+multipartOverhead+1),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUploadFile_MissingPart(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register("dev@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("file_type", "general"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/v1/files", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrMissingFile.Error(), detail(t, resp))
}

// ─────────────────────────────────────────────
// read / delete
// ─────────────────────────────────────────────

func TestFiles_ListGetDownload(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.register("dev@example.com")
	_, other := api.register("other@example.com")
	_, adminToken := api.registerAdmin("admin@example.com")

	resp := api.upload(owner, uploadForm{filename: "notes.txt", contentType: "text/plain", content: []byte("hello"), fileType: "general"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	file := decode[models.File](t, resp)
	api.upload(other, uploadForm{filename: "other.txt", content: []byte("x"), fileType: "general"})

	resp = api.do(http.MethodGet, "/api/v1/files", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]models.File](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, file.ID, listed[0].ID)

	resp = api.do(http.MethodGet, "/api/v1/files", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.File](t, resp), 2)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/files/"+file.ID, owner, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/v1/files/"+file.ID, other, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/files/missing", owner, nil).StatusCode)

	resp = api.do(http.MethodGet, "/api/v1/files/"+file.ID+"/download", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	assert.Equal(t, `attachment; filename=notes.txt`, resp.Header.Get("Content-Disposition"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
}

func TestDeleteFile(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.register("dev@example.com")
	_, other := api.register("other@example.com")

	resp := api.upload(owner, uploadForm{filename: "bundle.zip", content: []byte("PK")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	file := decode[models.File](t, resp)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/v1/files/"+file.ID, other, nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/files/"+file.ID, owner, nil).StatusCode)

	_, err := os.Stat(file.StoragePath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/files/"+file.ID, owner, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/v1/files/"+file.ID, owner, nil).StatusCode)
}

func TestDownloadFile_BlobMissing(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.register("dev@example.com")

	resp := api.upload(owner, uploadForm{filename: "bundle.zip", content: []byte("PK")})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	file := decode[models.File](t, resp)
	require.NoError(t, os.Remove(file.StoragePath))

	resp = api.do(http.MethodGet, "/api/v1/files/"+file.ID+"/download", owner, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFiles_ReuploadKeepsOneRecord(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.register("dev@example.com")

	form := uploadForm{filename: "notes.txt", contentType: "text/plain", content: []byte("first"), fileType: "general"}
	resp := api.upload(owner, form)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[models.File](t, resp)

	form.content = []byte("second, longer")
	resp = api.upload(owner, form)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decode[models.File](t, resp)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(len("second, longer")), second.SizeBytes)

	resp = api.do(http.MethodGet, "/api/v1/files", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decode[[]models.File](t, resp), 1)

	resp = api.do(http.MethodGet, "/api/v1/files/"+first.ID+"/download", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "second, longer", string(raw))

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/files/"+first.ID, owner, nil).StatusCode)
	resp = api.do(http.MethodGet, "/api/v1/files", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.File](t, resp))
}
