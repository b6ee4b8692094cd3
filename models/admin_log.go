// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Admin actions recorded in the audit log.
const (
	ActionUserStatusChanged  = "user_status_changed"
	ActionAgentStatusChanged = "agent_status_changed"
)

// Audit log target types.
const (
	TargetUser  = "user"
	TargetAgent = "agent"
)

// AdminLog is an append-only audit entry for an administrative action.
type AdminLog struct {
	ID          string    `json:"id"`
	AdminID     string    `json:"admin_id"`
	Action      string    `json:"action"`
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the AdminLog model.
func (l AdminLog) TableName() string {
	return "admin_logs"
}

// AdminLogFilter narrows a log listing; empty fields match everything.
type AdminLogFilter struct {
	Action     string
	TargetType string
	Page       Page
}

// AdminOverview is the admin dashboard summary.
type AdminOverview struct {
	TotalUsers   int64 `json:"total_users"`
	ActiveUsers  int64 `json:"active_users"`
	TotalAgents  int64 `json:"total_agents"`
	PublicAgents int64 `json:"public_agents"`
	TotalFiles   int64 `json:"total_files"`
}
