package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
)

const maxPageLimit = 100

// parsePage reads skip and limit from the query string. Absent values
// default to 0 and defaultLimit.
func parsePage(r *http.Request, defaultLimit uint64) (models.Page, error) {
	page := models.Page{Limit: defaultLimit}
	q := r.URL.Query()

	if s := q.Get("skip"); s != "" {
		skip, err := strconv.ParseInt(s, 10, 64)
		if err != nil || skip < 0 {
			return models.Page{}, ErrInvalidPagination
		}
		page.Skip = uint64(skip)
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.ParseInt(s, 10, 64)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return models.Page{}, ErrInvalidPagination
		}
		page.Limit = uint64(limit)
	}

	return page, nil
}

// decodeJSON decodes the body into v and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, fn string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg("invalid JSON was passed")
		utils.WriteError(w, ErrInvalidJSON.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// caller returns the user stored by the auth middleware.
func caller(r *http.Request) models.User {
	user, _ := utils.GetUserFromContext(r.Context())
	return user
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

func publicUsers(users []models.User) []models.UserPublic {
	out := make([]models.UserPublic, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}
