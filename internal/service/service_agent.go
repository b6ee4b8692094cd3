// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

type agentService struct {
	agentRepository store.AgentRepository
	maxPerUser      int64

	logger *logger.Logger
}

// NewAgentService returns the agent service wrapped with input validation.
func NewAgentService(agentRepository store.AgentRepository, cfg config.Agents, logger *logger.Logger) AgentService {
	core := &agentService{
		agentRepository: agentRepository,
		maxPerUser:      int64(cfg.MaxPerUser),
		logger:          logger,
	}

	return NewAgentValidationService(cfg).Wrap(core)
}

// CreateAgent stores a new agent owned by the caller. New agents start
// pending and are not published until an administrator approves them.
func (s *agentService) CreateAgent(ctx context.Context, caller models.User, in models.AgentCreate) (models.Agent, error) {
	log := logger.FromContext(ctx)

	count, err := s.agentRepository.CountAgentsByOwner(ctx, caller.ID)
	if err != nil {
		return models.Agent{}, fmt.Errorf("error counting agents: %w", err)
	}
	if count >= s.maxPerUser {
		log.Info().Str("func", "*agentService.CreateAgent").Str("user_id", caller.ID).Int64("count", count).Msg("agent limit reached")
		return models.Agent{}, ErrAgentLimitReached
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	agent, err := s.agentRepository.CreateAgent(ctx, models.Agent{
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		Visibility:         visibility,
		Tags:               cleanTags(in.Tags),
		AgentType:          strings.TrimSpace(in.AgentType),
		Category:           strings.TrimSpace(in.Category),
		GithubLink:         trimmedOrNil(in.GithubLink),
		FileRefs:           in.FileRefs,
		IsActive:           true,
		CopyrightConfirmed: in.CopyrightConfirmed,
		Status:             models.AgentStatusPending,
		CreatedBy:          caller.ID,
	})
	if err != nil {
		log.Err(err).Str("func", "*agentService.CreateAgent").Msg("error creating agent")
		return models.Agent{}, fmt.Errorf("error creating agent: %w", err)
	}

	log.Info().Str("func", "*agentService.CreateAgent").Str("agent_id", agent.ID).Msg("agent created")
	return agent, nil
}

func (s *agentService) ListAgents(ctx context.Context, caller models.User, page models.Page) ([]models.Agent, error) {
	return s.agentRepository.ListAgents(ctx, models.AgentFilter{CreatedBy: caller.ID, Page: page})
}

// GetAgent returns an agent visible to the caller: their own, any agent for
// an admin, or a published one.
func (s *agentService) GetAgent(ctx context.Context, caller models.User, id string) (models.Agent, error) {
	agent, err := s.agentRepository.FindAgentByID(ctx, id)
	if err != nil {
		return models.Agent{}, err
	}

	if agent.CreatedBy != caller.ID && caller.Role != models.RoleAdmin && !agent.IsPublished() {
		return models.Agent{}, ErrForbidden
	}
	return agent, nil
}

func (s *agentService) UpdateAgent(ctx context.Context, caller models.User, id string, in models.AgentUpdate) (models.Agent, error) {
	agent, err := s.owned(ctx, caller, id)
	if err != nil {
		return models.Agent{}, err
	}

	if in.Tags != nil {
		tags := cleanTags(*in.Tags)
		in.Tags = &tags
	}
	in.Apply(&agent)

	updated, err := s.agentRepository.UpdateAgent(ctx, agent)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*agentService.UpdateAgent").Str("agent_id", id).Msg("error updating agent")
		return models.Agent{}, fmt.Errorf("error updating agent: %w", err)
	}
	return updated, nil
}

func (s *agentService) DeleteAgent(ctx context.Context, caller models.User, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}

	if err := s.agentRepository.DeleteAgent(ctx, id); err != nil {
		return fmt.Errorf("error deleting agent: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "*agentService.DeleteAgent").Str("agent_id", id).Msg("agent deleted")
	return nil
}

func (s *agentService) ListPublishedAgents(ctx context.Context, page models.Page) ([]models.Agent, error) {
	return s.agentRepository.ListAgents(ctx, models.AgentFilter{PublishedOnly: true, Page: page})
}

// GetPublishedAgent hides unpublished agents behind store.ErrAgentNotFound.
func (s *agentService) GetPublishedAgent(ctx context.Context, id string) (models.Agent, error) {
	agent, err := s.agentRepository.FindAgentByID(ctx, id)
	if err != nil {
		return models.Agent{}, err
	}
	if !agent.IsPublished() {
		return models.Agent{}, store.ErrAgentNotFound
	}
	return agent, nil
}

func (s *agentService) ListPublishedAgentIDs(ctx context.Context) ([]string, error) {
	return s.agentRepository.ListPublishedAgentIDs(ctx)
}

// FeaturedAgents returns the newest published agents.
func (s *agentService) FeaturedAgents(ctx context.Context, limit uint64) ([]models.Agent, error) {
	return s.ListPublishedAgents(ctx, models.Page{Limit: limit})
}

// owned loads an agent and checks that the caller created it.
func (s *agentService) owned(ctx context.Context, caller models.User, id string) (models.Agent, error) {
	agent, err := s.agentRepository.FindAgentByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrAgentNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*agentService.owned").Str("agent_id", id).Msg("error loading agent")
		}
		return models.Agent{}, err
	}
	if agent.CreatedBy != caller.ID {
		return models.Agent{}, ErrForbidden
	}
	return agent, nil
}

// cleanTags trims tags and drops empty ones and repeats.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
