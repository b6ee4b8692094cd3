// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createAgent(w http.ResponseWriter, r *http.Request) {
	var in models.AgentCreate
	if !decodeJSON(w, r, "*Handler.createAgent", &in) {
		return
	}

	agent, err := h.services.AgentService.CreateAgent(r.Context(), caller(r), in)
	if err != nil {
		writeServiceError(w, r, "*Handler.createAgent", err)
		return
	}

	writeJSON(w, r, agent, http.StatusCreated)
}

// listAgents lists the caller's own agents.
func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultOwnLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	agents, err := h.services.AgentService.ListAgents(r.Context(), caller(r), page)
	if err != nil {
		writeServiceError(w, r, "*Handler.listAgents", err)
		return
	}

	writeJSON(w, r, nonNil(agents), http.StatusOK)
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.services.AgentService.GetAgent(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.getAgent", err)
		return
	}

	writeJSON(w, r, agent, http.StatusOK)
}

func (h *Handler) updateAgent(w http.ResponseWriter, r *http.Request) {
	var in models.AgentUpdate
	if !decodeJSON(w, r, "*Handler.updateAgent", &in) {
		return
	}

	agent, err := h.services.AgentService.UpdateAgent(r.Context(), caller(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateAgent", err)
		return
	}

	writeJSON(w, r, agent, http.StatusOK)
}

func (h *Handler) deleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.services.AgentService.DeleteAgent(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "*Handler.deleteAgent", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPublishedAgents(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultPublicLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	agents, err := h.services.AgentService.ListPublishedAgents(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, "*Handler.listPublishedAgents", err)
		return
	}

	writeJSON(w, r, nonNil(agents), http.StatusOK)
}

func (h *Handler) getPublishedAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.services.AgentService.GetPublishedAgent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.getPublishedAgent", err)
		return
	}

	writeJSON(w, r, agent, http.StatusOK)
}

func (h *Handler) publishedAgentIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.services.AgentService.ListPublishedAgentIDs(r.Context())
	if err != nil {
		writeServiceError(w, r, "*Handler.publishedAgentIDs", err)
		return
	}

	writeJSON(w, r, models.AgentIDs{IDs: nonNil(ids)}, http.StatusOK)
}

func (h *Handler) featuredAgents(w http.ResponseWriter, r *http.Request) {
	limit := uint64(defaultFeatured)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n < 1 || n > maxPageLimit {
			utils.WriteError(w, ErrInvalidPagination.Error(), http.StatusBadRequest)
			return
		}
		limit = n
	}

	agents, err := h.services.AgentService.FeaturedAgents(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "*Handler.featuredAgents", err)
		return
	}

	writeJSON(w, r, nonNil(agents), http.StatusOK)
}

// nonNil makes empty listings serialize as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
