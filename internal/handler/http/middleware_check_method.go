// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/ai-pills/internal/utils"
)

// notFound replaces chi's plain-text 404 with the JSON error body used by
// every other response.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, "Not Found", http.StatusNotFound)
}

// methodNotAllowed is registered with chi.Mux.MethodNotAllowed. chi has
// already set the Allow header when it calls this handler.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}
