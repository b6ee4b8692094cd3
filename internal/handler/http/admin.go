// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
	"github.com/go-chi/chi/v5"
)

// Every handler here runs behind auth and adminOnly. The service checks
// the role again.

func (h *Handler) adminOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.services.AdminService.Overview(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, "*Handler.adminOverview", err)
		return
	}
	writeJSON(w, r, overview, http.StatusOK)
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultAdminLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	users, err := h.services.AdminService.ListUsers(r.Context(), caller(r), page)
	if err != nil {
		writeServiceError(w, r, "*Handler.adminListUsers", err)
		return
	}
	writeJSON(w, r, publicUsers(users), http.StatusOK)
}

func (h *Handler) adminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.AdminService.GetUser(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.adminGetUser", err)
		return
	}
	writeJSON(w, r, user.Public(), http.StatusOK)
}

func (h *Handler) adminSetUserStatus(w http.ResponseWriter, r *http.Request) {
	var in models.UserStatusUpdate
	if !decodeJSON(w, r, "*Handler.adminSetUserStatus", &in) {
		return
	}

	user, err := h.services.AdminService.SetUserStatus(r.Context(), caller(r), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeServiceError(w, r, "*Handler.adminSetUserStatus", err)
		return
	}
	writeJSON(w, r, user.Public(), http.StatusOK)
}

func (h *Handler) adminListAgents(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultAdminLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	agents, err := h.services.AdminService.ListAgents(r.Context(), caller(r), page)
	if err != nil {
		writeServiceError(w, r, "*Handler.adminListAgents", err)
		return
	}
	writeJSON(w, r, nonNil(agents), http.StatusOK)
}

func (h *Handler) adminGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.services.AdminService.GetAgent(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.adminGetAgent", err)
		return
	}
	writeJSON(w, r, agent, http.StatusOK)
}

func (h *Handler) adminSetAgentStatus(w http.ResponseWriter, r *http.Request) {
	var in models.AgentStatusUpdate
	if !decodeJSON(w, r, "*Handler.adminSetAgentStatus", &in) {
		return
	}

	agent, err := h.services.AdminService.SetAgentStatus(r.Context(), caller(r), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeServiceError(w, r, "*Handler.adminSetAgentStatus", err)
		return
	}
	writeJSON(w, r, agent, http.StatusOK)
}

func (h *Handler) adminListLogs(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, defaultAdminLimit)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	logs, err := h.services.AdminService.ListLogs(r.Context(), caller(r), models.AdminLogFilter{
		Action:     q.Get("action"),
		TargetType: q.Get("target_type"),
		Page:       page,
	})
	if err != nil {
		writeServiceError(w, r, "*Handler.adminListLogs", err)
		return
	}
	writeJSON(w, r, nonNil(logs), http.StatusOK)
}
