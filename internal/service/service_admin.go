// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

type adminService struct {
	userRepository     store.UserRepository
	agentRepository    store.AgentRepository
	fileRepository     store.FileRepository
	adminLogRepository store.AdminLogRepository

	logger *logger.Logger
}

func NewAdminService(storages *store.Storages, logger *logger.Logger) AdminService {
	return &adminService{
		userRepository:     storages.UserRepository,
		agentRepository:    storages.AgentRepository,
		fileRepository:     storages.FileRepository,
		adminLogRepository: storages.AdminLogRepository,
		logger:             logger,
	}
}

func (s *adminService) Overview(ctx context.Context, caller models.User) (models.AdminOverview, error) {
	if err := requireAdmin(caller); err != nil {
		return models.AdminOverview{}, err
	}

	var (
		overview models.AdminOverview
		err      error
	)
	if overview.TotalUsers, overview.ActiveUsers, err = s.userRepository.CountUsers(ctx); err != nil {
		return models.AdminOverview{}, fmt.Errorf("error counting users: %w", err)
	}
	if overview.TotalAgents, overview.PublicAgents, err = s.agentRepository.CountAgents(ctx); err != nil {
		return models.AdminOverview{}, fmt.Errorf("error counting agents: %w", err)
	}
	if overview.TotalFiles, err = s.fileRepository.CountFiles(ctx); err != nil {
		return models.AdminOverview{}, fmt.Errorf("error counting files: %w", err)
	}

	return overview, nil
}

func (s *adminService) ListUsers(ctx context.Context, caller models.User, page models.Page) ([]models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.userRepository.ListUsers(ctx, page)
}

func (s *adminService) GetUser(ctx context.Context, caller models.User, id string) (models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return models.User{}, err
	}
	return s.userRepository.FindUserByID(ctx, id)
}

// SetUserStatus activates or suspends a user and records the change in the
// admin log.
func (s *adminService) SetUserStatus(ctx context.Context, caller models.User, id string, status models.UserStatus) (models.User, error) {
	if err := requireAdmin(caller); err != nil {
		return models.User{}, err
	}

	var active bool
	switch status {
	case models.UserStatusActive:
		active = true
	case models.UserStatusSuspended:
	default:
		return models.User{}, ErrInvalidStatus
	}

	user, err := s.userRepository.SetUserActive(ctx, id, active)
	if err != nil {
		return models.User{}, err
	}

	s.audit(ctx, caller, models.ActionUserStatusChanged, models.TargetUser, id,
		fmt.Sprintf("user %s status set to %s", user.Email, status))
	return user, nil
}

func (s *adminService) ListAgents(ctx context.Context, caller models.User, page models.Page) ([]models.Agent, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.agentRepository.ListAgents(ctx, models.AgentFilter{Page: page})
}

func (s *adminService) GetAgent(ctx context.Context, caller models.User, id string) (models.Agent, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Agent{}, err
	}
	return s.agentRepository.FindAgentByID(ctx, id)
}

// SetAgentStatus changes only the moderation status of an agent.
func (s *adminService) SetAgentStatus(ctx context.Context, caller models.User, id string, status models.AgentStatus) (models.Agent, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Agent{}, err
	}
	if !status.Valid() {
		return models.Agent{}, ErrInvalidStatus
	}

	agent, err := s.agentRepository.FindAgentByID(ctx, id)
	if err != nil {
		return models.Agent{}, err
	}
	previous := agent.Status
	agent.Status = status

	updated, err := s.agentRepository.UpdateAgent(ctx, agent)
	if err != nil {
		return models.Agent{}, fmt.Errorf("error updating agent status: %w", err)
	}

	s.audit(ctx, caller, models.ActionAgentStatusChanged, models.TargetAgent, id,
		fmt.Sprintf("agent %q status changed from %s to %s", agent.Name, previous, status))
	return updated, nil
}

func (s *adminService) ListLogs(ctx context.Context, caller models.User, filter models.AdminLogFilter) ([]models.AdminLog, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.adminLogRepository.ListLogs(ctx, filter)
}

// audit writes an admin log entry. A failed write is logged and does not
// undo the change it describes.
func (s *adminService) audit(ctx context.Context, caller models.User, action, targetType, targetID, description string) {
	_, err := s.adminLogRepository.CreateLog(ctx, models.AdminLog{
		AdminID:     caller.ID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*adminService.audit").
			Str("action", action).
			Str("target_id", targetID).
			Msg("error writing admin log")
	}
}

func requireAdmin(caller models.User) error {
	if caller.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
