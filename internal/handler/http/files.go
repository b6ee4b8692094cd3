package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
	"github.com/go-chi/chi/v5"
)

const (
	// multipartOverhead is allowed on top of the configured file size for
	// boundaries and the other form fields.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// uploadFile accepts multipart/form-data with a "file" part and the
// optional fields agent_id and file_type.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if h.files.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxFileSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, "file size exceeds maximum allowed size", http.StatusRequestEntityTooLarge)
			return
		}
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("invalid multipart form")
		utils.WriteError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	part, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, ErrMissingFile.Error(), http.StatusBadRequest)
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("error reading uploaded file")
		utils.WriteError(w, "error reading uploaded file", http.StatusBadRequest)
		return
	}

	upload := models.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		FileType:    r.FormValue("file_type"),
	}
	if agentID := strings.TrimSpace(r.FormValue("agent_id")); agentID != "" {
		upload.AgentID = &agentID
	}

	file, err := h.services.FileService.Upload(r.Context(), caller(r), upload)
	if err != nil {
		writeServiceError(w, r, "*Handler.uploadFile", err)
		return
	}

	writeJSON(w, r, file, http.StatusCreated)
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultPublicLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var agentID *string
	if s := r.URL.Query().Get("agent_id"); s != "" {
		agentID = &s
	}

	files, err := h.services.FileService.ListFiles(r.Context(), caller(r), agentID, page)
	if err != nil {
		writeServiceError(w, r, "*Handler.listFiles", err)
		return
	}

	writeJSON(w, r, nonNil(files), http.StatusOK)
}

func (h *Handler) getFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.services.FileService.GetFile(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.getFile", err)
		return
	}

	writeJSON(w, r, file, http.StatusOK)
}

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	file, content, err := h.services.FileService.Download(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.downloadFile", err)
		return
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.downloadFile").Msg("error writing file")
	}
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.services.FileService.DeleteFile(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "*Handler.deleteFile", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
