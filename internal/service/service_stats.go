package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

type statsService struct {
	statsRepository store.StatsRepository
	agentRepository store.AgentRepository

	now    func() time.Time
	logger *logger.Logger
}

func NewStatsService(storages *store.Storages, logger *logger.Logger) StatsService {
	return &statsService{
		statsRepository: storages.StatsRepository,
		agentRepository: storages.AgentRepository,
		now:             time.Now,
		logger:          logger,
	}
}

// ListStats returns the agent's daily counters, newest first. Only the
// owner and admins may read them.
func (s *statsService) ListStats(ctx context.Context, caller models.User, agentID string, dates models.DateRange) ([]models.AgentStats, error) {
	if err := validateDateRange(dates); err != nil {
		return nil, err
	}
	if err := s.checkAgentAccess(ctx, caller, agentID); err != nil {
		return nil, err
	}
	return s.statsRepository.ListStats(ctx, agentID, dates)
}

// UpsertStats sets the counters of one day, today (UTC) when no date is
// given. There is at most one row per agent and day.
func (s *statsService) UpsertStats(ctx context.Context, caller models.User, agentID string, in models.AgentStatsUpsert) (models.AgentStats, error) {
	date := in.Date
	if date == "" {
		date = s.now().UTC().Format(models.DateLayout)
	}
	if !validDate(date) {
		return models.AgentStats{}, ErrInvalidDate
	}
	if in.Views < 0 || in.Downloads < 0 || in.APICalls < 0 {
		return models.AgentStats{}, ErrNegativeCounter
	}
	if err := s.checkAgentAccess(ctx, caller, agentID); err != nil {
		return models.AgentStats{}, err
	}

	stats, err := s.statsRepository.UpsertStats(ctx, models.AgentStats{
		AgentID:   agentID,
		Date:      date,
		Views:     in.Views,
		Downloads: in.Downloads,
		APICalls:  in.APICalls,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*statsService.UpsertStats").Str("agent_id", agentID).Msg("error saving stats")
		return models.AgentStats{}, fmt.Errorf("error saving stats: %w", err)
	}
	return stats, nil
}

// Summary aggregates every agent's counters. Admin only.
func (s *statsService) Summary(ctx context.Context, caller models.User, dates models.DateRange) (models.StatsSummary, error) {
	if caller.Role != models.RoleAdmin {
		return models.StatsSummary{}, ErrForbidden
	}
	if err := validateDateRange(dates); err != nil {
		return models.StatsSummary{}, err
	}
	return s.statsRepository.Summary(ctx, dates)
}

func (s *statsService) checkAgentAccess(ctx context.Context, caller models.User, agentID string) error {
	agent, err := s.agentRepository.FindAgentByID(ctx, agentID)
	if err != nil {
		return err
	}
	if agent.CreatedBy != caller.ID && caller.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func validateDateRange(r models.DateRange) error {
	if r.Start != "" && !validDate(r.Start) {
		return ErrInvalidDate
	}
	if r.End != "" && !validDate(r.End) {
		return ErrInvalidDate
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
