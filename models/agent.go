// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Visibility controls whether an agent appears in the public catalogue.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// AgentStatus is the moderation state set by administrators.
type AgentStatus string

const (
	AgentStatusPending   AgentStatus = "pending"
	AgentStatusApproved  AgentStatus = "approved"
	AgentStatusRejected  AgentStatus = "rejected"
	AgentStatusSuspended AgentStatus = "suspended"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusPending, AgentStatusApproved, AgentStatusRejected, AgentStatusSuspended:
		return true
	}
	return false
}

// Agent is an AI agent record owned by the user in CreatedBy.
type Agent struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Visibility         Visibility  `json:"visibility"`
	Tags               []string    `json:"tags"`
	AgentType          string      `json:"agent_type"`
	Category           string      `json:"category"`
	GithubLink         *string     `json:"github_link,omitempty"`
	FileRefs           []string    `json:"file_refs"`
	IsActive           bool        `json:"is_active"`
	CopyrightConfirmed bool        `json:"copyright_confirmed"`
	Status             AgentStatus `json:"status"`
	CreatedBy          string      `json:"created_by"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	SchemaVersion int `json:"-"`
}

// TableName returns the name of the database table
// associated with the Agent model.
func (a Agent) TableName() string {
	return "agents"
}

// IsPublished reports whether the agent may be shown to anonymous callers:
// it must be public, active and approved by an administrator.
func (a Agent) IsPublished() bool {
	return a.Visibility == VisibilityPublic && a.IsActive && a.Status == AgentStatusApproved
}

// AgentCreate is the body of the create-agent endpoint.
type AgentCreate struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Visibility         Visibility `json:"visibility"`
	Tags               []string   `json:"tags"`
	AgentType          string     `json:"agent_type"`
	Category           string     `json:"category"`
	GithubLink         *string    `json:"github_link,omitempty"`
	FileRefs           []string   `json:"file_refs"`
	CopyrightConfirmed bool       `json:"copyright_confirmed"`
}

// AgentUpdate is a partial update: nil fields are left unchanged.
type AgentUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
	AgentType   *string     `json:"agent_type,omitempty"`
	Category    *string     `json:"category,omitempty"`
	GithubLink  *string     `json:"github_link,omitempty"`
	FileRefs    *[]string   `json:"file_refs,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
}

// Apply copies the non-nil fields of u onto a.
func (u AgentUpdate) Apply(a *Agent) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Description != nil {
		a.Description = *u.Description
	}
	if u.Visibility != nil {
		a.Visibility = *u.Visibility
	}
	if u.Tags != nil {
		a.Tags = *u.Tags
	}
	if u.AgentType != nil {
		a.AgentType = *u.AgentType
	}
	if u.Category != nil {
		a.Category = *u.Category
	}
	if u.GithubLink != nil {
		a.GithubLink = u.GithubLink
	}
	if u.FileRefs != nil {
		a.FileRefs = *u.FileRefs
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
}

type AgentStatusUpdate struct {
	Status AgentStatus `json:"status"`
}

// AgentIDs is the response of the public id listing.
type AgentIDs struct {
	IDs []string `json:"ids"`
}
