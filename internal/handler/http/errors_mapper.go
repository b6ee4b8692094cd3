package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/service"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/internal/utils"
)

type errorStatus struct {
	err    error
	status int
}

// errorStatusMap is matched top to bottom; the first errors.Is hit wins.
// Storage subtypes come before filestore.ErrStorage, which every
// *filestore.Error matches.
var errorStatusMap = []errorStatus{
	{filestore.ErrNotImplemented, http.StatusNotImplemented},
	{filestore.ErrSizeLimitExceeded, http.StatusRequestEntityTooLarge},
	{filestore.ErrNotFound, http.StatusNotFound},
	{filestore.ErrInvalidName, http.StatusBadRequest},
	{filestore.ErrStorage, http.StatusInternalServerError},

	{store.ErrUserNotFound, http.StatusNotFound},
	{store.ErrAgentNotFound, http.StatusNotFound},
	{store.ErrFileNotFound, http.StatusNotFound},
	{store.ErrEmailAlreadyExists, http.StatusConflict},
	{store.ErrUsernameAlreadyExists, http.StatusConflict},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
	{service.ErrInactiveUser, http.StatusForbidden},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrCopyrightNotConfirmed, http.StatusBadRequest},
	{service.ErrAgentLimitReached, http.StatusBadRequest},
	{service.ErrInvalidFileExtension, http.StatusBadRequest},
	{service.ErrInvalidDataProvided, http.StatusUnprocessableEntity},
}

// statusFromError returns the status for err and the sentinel it matched.
// Unknown errors map to 500 with a nil sentinel.
func statusFromError(err error) (int, error) {
	for _, es := range errorStatusMap {
		if errors.Is(err, es.err) {
			return es.status, es.err
		}
	}
	return http.StatusInternalServerError, nil
}

// writeServiceError logs err and writes it as {"detail": ...}. Validation
// errors keep their full text; everything else is reported with the
// sentinel's message so wrapped internals do not leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status, target := statusFromError(err)
	log := logger.FromRequest(r)

	detail := http.StatusText(status)
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusNotImplemented:
		log.Err(err).Str("func", fn).Int("status", status).Msg("request failed")
	case errors.Is(err, service.ErrInvalidDataProvided):
		detail = err.Error()
		log.Info().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	default:
		detail = target.Error()
		log.Info().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	utils.WriteError(w, detail, status)
}
