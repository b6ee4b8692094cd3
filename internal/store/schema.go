// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/ai-pills/models"
)

// Row layout versions. Every row records the version it was written with;
// rows of an older known version are upgraded step by step when read, and
// rows of an unknown version fail the read.
const (
	userSchemaV1 = 1

	agentSchemaV1 = 1 // before moderation status
	agentSchemaV2 = 2

	fileSchemaV1 = 1 // before file_type
	fileSchemaV2 = 2

	statsSchemaV1 = 1

	currentUserSchema  = userSchemaV1
	currentAgentSchema = agentSchemaV2
	currentFileSchema  = fileSchemaV2
	currentStatsSchema = statsSchemaV1
)

type userRow struct {
	models.User
	username    sql.NullString
	phone       sql.NullString
	role        string
	lastLoginAt sql.NullTime
}

func (r *userRow) scan(s rowScanner) error {
	return s.Scan(
		&r.ID, &r.Email, &r.username, &r.phone, &r.role, &r.IsActive, &r.PasswordHash,
		&r.CreatedAt, &r.UpdatedAt, &r.lastLoginAt, &r.SchemaVersion,
	)
}

func (r *userRow) model() (models.User, error) {
	if r.SchemaVersion != userSchemaV1 {
		return models.User{}, fmt.Errorf("%w: users v%d", ErrUnsupportedSchemaVersion, r.SchemaVersion)
	}

	u := r.User
	u.Role = models.Role(r.role)
	if !u.Role.Valid() {
		return models.User{}, fmt.Errorf("%w: user %s has role %q", ErrCorruptRecord, u.ID, r.role)
	}
	u.Username = nullString(r.username)
	u.Phone = nullString(r.phone)
	u.LastLoginAt = nullTime(r.lastLoginAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

type agentRow struct {
	models.Agent
	visibility string
	tags       stringList
	githubLink sql.NullString
	fileRefs   stringList
	status     sql.NullString
}

func (r *agentRow) scan(s rowScanner) error {
	return s.Scan(
		&r.ID, &r.Name, &r.Description, &r.visibility, &r.tags, &r.AgentType, &r.Category,
		&r.githubLink, &r.fileRefs, &r.IsActive, &r.CopyrightConfirmed, &r.status,
		&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt, &r.SchemaVersion,
	)
}

func (r *agentRow) model() (models.Agent, error) {
	a := r.Agent
	a.Visibility = models.Visibility(r.visibility)
	a.Tags = []string(r.tags)
	a.FileRefs = []string(r.fileRefs)
	a.GithubLink = nullString(r.githubLink)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()

	switch r.SchemaVersion {
	case agentSchemaV1:
		if r.status.Valid {
			return models.Agent{}, fmt.Errorf("%w: v1 agent %s carries a status", ErrCorruptRecord, a.ID)
		}
		a.Status = models.AgentStatusApproved
	case agentSchemaV2:
		a.Status = models.AgentStatus(r.status.String)
		if !a.Status.Valid() {
			return models.Agent{}, fmt.Errorf("%w: agent %s has status %q", ErrCorruptRecord, a.ID, r.status.String)
		}
	default:
		return models.Agent{}, fmt.Errorf("%w: agents v%d", ErrUnsupportedSchemaVersion, r.SchemaVersion)
	}

	if !a.Visibility.Valid() {
		return models.Agent{}, fmt.Errorf("%w: agent %s has visibility %q", ErrCorruptRecord, a.ID, r.visibility)
	}
	a.SchemaVersion = currentAgentSchema
	return a, nil
}

type fileRow struct {
	models.File
	fileType sql.NullString
	agentID  sql.NullString
}

func (r *fileRow) scan(s rowScanner) error {
	return s.Scan(
		&r.ID, &r.Filename, &r.ContentType, &r.SizeBytes, &r.StorageType, &r.StoragePath,
		&r.URL, &r.fileType, &r.UploadedBy, &r.agentID, &r.CreatedAt, &r.SchemaVersion,
	)
}

// Stored file types. Kept here so the store does not depend on the
// filestore package.
const (
	fileTypeAgents  = "agents"
	fileTypeGeneral = "general"
)

func (r *fileRow) model() (models.File, error) {
	f := r.File
	f.AgentID = nullString(r.agentID)
	f.CreatedAt = f.CreatedAt.UTC()

	switch r.SchemaVersion {
	case fileSchemaV1:
		if r.fileType.Valid {
			return models.File{}, fmt.Errorf("%w: v1 file %s carries a file type", ErrCorruptRecord, f.ID)
		}
		f.FileType = fileTypeGeneral
		if f.AgentID != nil {
			f.FileType = fileTypeAgents
		}
	case fileSchemaV2:
		if !r.fileType.Valid || r.fileType.String == "" {
			return models.File{}, fmt.Errorf("%w: file %s has no file type", ErrCorruptRecord, f.ID)
		}
		f.FileType = r.fileType.String
	default:
		return models.File{}, fmt.Errorf("%w: files v%d", ErrUnsupportedSchemaVersion, r.SchemaVersion)
	}

	f.SchemaVersion = currentFileSchema
	return f, nil
}

type statsRow struct {
	models.AgentStats
}

func (r *statsRow) scan(s rowScanner) error {
	return s.Scan(
		&r.ID, &r.AgentID, &r.Date, &r.Views, &r.Downloads, &r.APICalls,
		&r.CreatedAt, &r.UpdatedAt, &r.SchemaVersion,
	)
}

func (r *statsRow) model() (models.AgentStats, error) {
	if r.SchemaVersion != statsSchemaV1 {
		return models.AgentStats{}, fmt.Errorf("%w: agent_stats v%d", ErrUnsupportedSchemaVersion, r.SchemaVersion)
	}
	st := r.AgentStats
	st.CreatedAt = st.CreatedAt.UTC()
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
