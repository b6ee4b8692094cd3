package http

import (
	"net/http"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/service"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
)

// auth requires a valid session token in the "Authorization: Bearer"
// header and stores the active user in the request context.
//
// Password-reset tokens are rejected here by AuthService.Authenticate.
// Every rejection is a 401 with the same detail, except a suspended user,
// which gets 403.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Info().Str("func", "*Handler.auth").Msg(ErrEmptyAuthorizationHeader.Error())
			w.Header().Set("WWW-Authenticate", "Bearer")
			utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Info().Err(err).Str("func", "*Handler.auth").Msg("malformed authorization header")
			w.Header().Set("WWW-Authenticate", "Bearer")
			utils.WriteError(w, service.ErrTokenIsExpiredOrInvalid.Error(), http.StatusUnauthorized)
			return
		}

		user, err := h.services.AuthService.Authenticate(r.Context(), tokenString)
		if err != nil {
			writeServiceError(w, r, "*Handler.auth", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	})
}

// adminOnly must run after auth.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller(r).Role != models.RoleAdmin {
			writeServiceError(w, r, "*Handler.adminOnly", service.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
