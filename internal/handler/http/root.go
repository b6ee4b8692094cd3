package http

import (
	"net/http"

	"github.com/MKhiriev/ai-pills/models"
)

type rootResponse struct {
	Message string `json:"message"`
	models.AppInfo
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.Info(r.Context())
	writeJSON(w, r, rootResponse{
		Message: info.Name + " backend is running",
		AppInfo: info,
	}, http.StatusOK)
}

// health answers 503 when a component is down so load balancers can act
// on the status code alone.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.services.AppInfoService.Health(r.Context())

	code := http.StatusOK
	if status.Status != models.HealthOK {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, code)
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context())))
}
