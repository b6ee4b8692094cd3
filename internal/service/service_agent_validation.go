package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/models"
)

// AgentValidationService checks agent input against the configured limits
// before handing it to the wrapped service. Reads pass straight through.
type AgentValidationService struct {
	inner  AgentService
	limits config.Agents
}

func NewAgentValidationService(limits config.Agents) AgentServiceWrapper {
	return &AgentValidationService{limits: limits}
}

func (v *AgentValidationService) Wrap(inner AgentService) AgentService {
	v.inner = inner
	return v
}

func (v *AgentValidationService) CreateAgent(ctx context.Context, caller models.User, in models.AgentCreate) (models.Agent, error) {
	if err := v.validateName(in.Name); err != nil {
		return models.Agent{}, err
	}
	if strings.TrimSpace(in.AgentType) == "" {
		return models.Agent{}, ErrAgentTypeRequired
	}
	if strings.TrimSpace(in.Category) == "" {
		return models.Agent{}, ErrCategoryRequired
	}
	if in.Visibility != "" && !in.Visibility.Valid() {
		return models.Agent{}, ErrInvalidVisibility
	}
	if err := v.validateDescription(in.Description); err != nil {
		return models.Agent{}, err
	}
	if err := v.validateTags(in.Tags); err != nil {
		return models.Agent{}, err
	}
	if !in.CopyrightConfirmed {
		return models.Agent{}, ErrCopyrightNotConfirmed
	}

	return v.inner.CreateAgent(ctx, caller, in)
}

// UpdateAgent validates only the fields present in the update.
func (v *AgentValidationService) UpdateAgent(ctx context.Context, caller models.User, id string, in models.AgentUpdate) (models.Agent, error) {
	if in.Name != nil {
		if err := v.validateName(*in.Name); err != nil {
			return models.Agent{}, err
		}
	}
	if in.AgentType != nil && strings.TrimSpace(*in.AgentType) == "" {
		return models.Agent{}, ErrAgentTypeRequired
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		return models.Agent{}, ErrCategoryRequired
	}
	if in.Visibility != nil && !in.Visibility.Valid() {
		return models.Agent{}, ErrInvalidVisibility
	}
	if in.Description != nil {
		if err := v.validateDescription(*in.Description); err != nil {
			return models.Agent{}, err
		}
	}
	if in.Tags != nil {
		if err := v.validateTags(*in.Tags); err != nil {
			return models.Agent{}, err
		}
	}

	return v.inner.UpdateAgent(ctx, caller, id, in)
}

func (v *AgentValidationService) ListAgents(ctx context.Context, caller models.User, page models.Page) ([]models.Agent, error) {
	return v.inner.ListAgents(ctx, caller, page)
}

func (v *AgentValidationService) GetAgent(ctx context.Context, caller models.User, id string) (models.Agent, error) {
	return v.inner.GetAgent(ctx, caller, id)
}

func (v *AgentValidationService) DeleteAgent(ctx context.Context, caller models.User, id string) error {
	return v.inner.DeleteAgent(ctx, caller, id)
}

func (v *AgentValidationService) ListPublishedAgents(ctx context.Context, page models.Page) ([]models.Agent, error) {
	return v.inner.ListPublishedAgents(ctx, page)
}

func (v *AgentValidationService) GetPublishedAgent(ctx context.Context, id string) (models.Agent, error) {
	return v.inner.GetPublishedAgent(ctx, id)
}

func (v *AgentValidationService) ListPublishedAgentIDs(ctx context.Context) ([]string, error) {
	return v.inner.ListPublishedAgentIDs(ctx)
}

func (v *AgentValidationService) FeaturedAgents(ctx context.Context, limit uint64) ([]models.Agent, error) {
	return v.inner.FeaturedAgents(ctx, limit)
}

func (v *AgentValidationService) validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > v.limits.NameMaxLength {
		return fmt.Errorf("%w (max %d characters)", ErrNameTooLong, v.limits.NameMaxLength)
	}
	return nil
}

func (v *AgentValidationService) validateDescription(description string) error {
	if utf8.RuneCountInString(description) > v.limits.DescriptionMaxLength {
		return fmt.Errorf("%w (max %d characters)", ErrDescriptionTooLong, v.limits.DescriptionMaxLength)
	}
	return nil
}

func (v *AgentValidationService) validateTags(tags []string) error {
	if len(cleanTags(tags)) > v.limits.MaxTags {
		return fmt.Errorf("%w (max %d)", ErrTooManyTags, v.limits.MaxTags)
	}
	return nil
}
