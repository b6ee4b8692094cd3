package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/ai-pills/models"
)

func TestAgentRepository_CreateAndFind(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s.UserRepository, "owner@x.com")

	link := "https://github.com/acme/agent"
	created := mustCreateAgent(t, s.AgentRepository, owner.ID, func(a *models.Agent) {
		a.GithubLink = &link
		a.Tags = []string{"nlp", "chat"}
		a.FileRefs = nil
	})

	got, err := s.AgentRepository.FindAgentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, []string{"nlp", "chat"}, got.Tags)
	assert.Equal(t, []string{}, got.FileRefs)
	require.NotNil(t, got.GithubLink)
	assert.Equal(t, link, *got.GithubLink)
	assert.Equal(t, models.AgentStatusApproved, got.Status)
	assert.Equal(t, currentAgentSchema, got.SchemaVersion)

	_, err = s.AgentRepository.FindAgentByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentRepository_PublishedFiltering(t *testing.T) {
	s, db := newSQLiteStorages(t)
	fixedClock(db, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := mustCreateUser(t, s.UserRepository, "owner@x.com")

	published := mustCreateAgent(t, s.AgentRepository, owner.ID, nil)
	mustCreateAgent(t, s.AgentRepository, owner.ID, func(a *models.Agent) { a.Visibility = models.VisibilityPrivate })
	mustCreateAgent(t, s.AgentRepository, owner.ID, func(a *models.Agent) { a.IsActive = false })
	mustCreateAgent(t, s.AgentRepository, owner.ID, func(a *models.Agent) { a.Status = models.AgentStatusPending })
	newest := mustCreateAgent(t, s.AgentRepository, owner.ID, nil)

	agents, err := s.AgentRepository.ListAgents(ctx, models.AgentFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, newest.ID, agents[0].ID)
	assert.Equal(t, published.ID, agents[1].ID)

	ids, err := s.AgentRepository.ListPublishedAgentIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, published.ID}, ids)

	all, err := s.AgentRepository.ListAgents(ctx, models.AgentFilter{CreatedBy: owner.ID})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	total, public, err := s.AgentRepository.CountAgents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(2), public)

	count, err := s.AgentRepository.CountAgentsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestAgentRepository_ListByOwnerPaginates(t *testing.T) {
	s, db := newSQLiteStorages(t)
	fixedClock(db, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	alice := mustCreateUser(t, s.UserRepository, "alice@x.com")
	bob := mustCreateUser(t, s.UserRepository, "bob@x.com")

	first := mustCreateAgent(t, s.AgentRepository, alice.ID, nil)
	mustCreateAgent(t, s.AgentRepository, bob.ID, nil)
	second := mustCreateAgent(t, s.AgentRepository, alice.ID, nil)

	page, err := s.AgentRepository.ListAgents(ctx, models.AgentFilter{CreatedBy: alice.ID, Page: models.Page{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)

	page, err = s.AgentRepository.ListAgents(ctx, models.AgentFilter{CreatedBy: alice.ID, Page: models.Page{Skip: 1, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestAgentRepository_UpdateAndDelete(t *testing.T) {
	s, _ := newSQLiteStorages(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s.UserRepository, "owner@x.com")
	agent := mustCreateAgent(t, s.AgentRepository, owner.ID, nil)

	agent.Name = "renamed"
	agent.Tags = []string{"vision"}
	agent.Status = models.AgentStatusSuspended
	updated, err := s.AgentRepository.UpdateAgent(ctx, agent)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(agent.CreatedAt))

	got, err := s.AgentRepository.FindAgentByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, []string{"vision"}, got.Tags)
	assert.Equal(t, models.AgentStatusSuspended, got.Status)
	assert.False(t, got.IsPublished())

	require.NoError(t, s.AgentRepository.DeleteAgent(ctx, agent.ID))
	assert.ErrorIs(t, s.AgentRepository.DeleteAgent(ctx, agent.ID), ErrAgentNotFound)

	_, err = s.AgentRepository.UpdateAgent(ctx, agent)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentRepository_UpgradesVersion1Rows(t *testing.T) {
	s, db := newSQLiteStorages(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s.UserRepository, "owner@x.com")

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rawExec(t, db.DB, `INSERT INTO agents
		(id, name, description, visibility, tags, agent_type, category, file_refs,
		 is_active, copyright_confirmed, created_by, created_at, updated_at, schema_version)
		VALUES ('legacy', 'old', 'pre-moderation', 'public', '["a"]', 'assistant', '', '[]',
		 1, 1, ?, ?, ?, 1)`, owner.ID, now, now)

	got, err := s.AgentRepository.FindAgentByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusApproved, got.Status)
	assert.Equal(t, currentAgentSchema, got.SchemaVersion)
	assert.True(t, got.IsPublished())

	ids, err := s.AgentRepository.ListPublishedAgentIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy"}, ids)

	// writing the upgraded record persists the current layout
	_, err = s.AgentRepository.UpdateAgent(ctx, got)
	require.NoError(t, err)

	var version int
	var status string
	require.NoError(t, db.QueryRow("SELECT schema_version, status FROM agents WHERE id = 'legacy'").Scan(&version, &status))
	assert.Equal(t, agentSchemaV2, version)
	assert.Equal(t, "approved", status)
}

func TestAgentRepository_RejectsBadRows(t *testing.T) {
	s, db := newSQLiteStorages(t)
	ctx := context.Background()
	owner := mustCreateUser(t, s.UserRepository, "owner@x.com")
	agent := mustCreateAgent(t, s.AgentRepository, owner.ID, nil)

	rawExec(t, db.DB, "UPDATE agents SET schema_version = 7 WHERE id = ?", agent.ID)
	_, err := s.AgentRepository.FindAgentByID(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrUnsupportedSchemaVersion)

	rawExec(t, db.DB, "UPDATE agents SET schema_version = 2, status = 'bogus' WHERE id = ?", agent.ID)
	_, err = s.AgentRepository.FindAgentByID(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrCorruptRecord)

	rawExec(t, db.DB, "UPDATE agents SET schema_version = 1, status = 'approved' WHERE id = ?", agent.ID)
	_, err = s.AgentRepository.FindAgentByID(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
