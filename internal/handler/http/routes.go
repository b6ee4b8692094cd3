package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
)

const (
	defaultOwnLimit    = 10
	defaultPublicLimit = 20
	defaultAdminLimit  = 100
	defaultFeatured    = 10
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Recoverer)
	router.Use(h.cors())
	router.Use(middleware.Compress(5, "application/json", "text/plain"))
	if timeout := time.Duration(h.server.RequestTimeout); timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}
	router.Use(withGZipRequest)

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Get("/", h.root)
	router.Get("/health", h.health)
	if h.files.Backend == config.BackendLocal && h.files.BasePath != "" {
		router.Handle(filestore.UploadsURLPrefix+"/*",
			http.StripPrefix(filestore.UploadsURLPrefix+"/", noDirListing(http.FileServer(http.Dir(h.files.BasePath)))))
	}

	router.Route(h.apiPrefix(), func(api chi.Router) {
		api.Get("/version", h.version)

		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/login/token", h.loginForm)
			r.Post("/forgot-password", h.forgotPassword)
			r.Post("/reset-password", h.resetPassword)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Post("/logout", h.logout)
				r.Get("/me", h.me)
			})
		})

		api.Route("/public/agents", func(r chi.Router) {
			r.Get("/", h.listPublishedAgents)
			r.Get("/featured", h.featuredAgents)
			r.Get("/ids/all", h.publishedAgentIDs)
			r.Get("/{id}", h.getPublishedAgent)
		})

		api.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Route("/agents", func(r chi.Router) {
				r.Post("/", h.createAgent)
				r.Get("/", h.listAgents)
				r.Get("/{id}", h.getAgent)
				r.Put("/{id}", h.updateAgent)
				r.Delete("/{id}", h.deleteAgent)
			})

			r.Route("/files", func(r chi.Router) {
				r.Post("/", h.uploadFile)
				r.Get("/", h.listFiles)
				r.Get("/{id}", h.getFile)
				r.Get("/{id}/download", h.downloadFile)
				r.Delete("/{id}", h.deleteFile)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/stats/summary", h.statsSummary)
				r.Get("/{agentID}/stats", h.listStats)
				r.Post("/{agentID}/stats", h.upsertStats)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.adminOnly)
				r.Get("/", h.adminOverview)
				r.Get("/users", h.adminListUsers)
				r.Get("/users/{id}", h.adminGetUser)
				r.Put("/users/{id}/status", h.adminSetUserStatus)
				r.Get("/agents", h.adminListAgents)
				r.Get("/agents/{id}", h.adminGetAgent)
				r.Put("/agents/{id}/status", h.adminSetAgentStatus)
				r.Get("/logs", h.adminListLogs)
			})
		})
	})

	return router
}

func (h *Handler) apiPrefix() string {
	prefix := "/" + strings.Trim(h.server.APIPrefix, "/")
	if prefix == "/" {
		return "/api/v1"
	}
	return prefix
}

func (h *Handler) cors() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(h.server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Content-Encoding", traceIDHeader}),
		handlers.ExposedHeaders([]string{"Authorization", traceIDHeader}),
		handlers.AllowCredentials(),
	)
}

// noDirListing hides directory indexes of the upload tree.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
