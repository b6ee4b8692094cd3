package service

import (
	"context"

	"github.com/MKhiriev/ai-pills/models"
)

// AuthService owns credentials and tokens.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	// Login accepts an email or a username and returns the user with a
	// fresh session token.
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)
	// Authenticate resolves a session token to an active user.
	Authenticate(ctx context.Context, token string) (models.User, error)
	Me(ctx context.Context, userID string) (models.User, error)
	// ForgotPassword returns the reset token only outside production. The
	// result does not reveal whether the email is registered.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	Logout(ctx context.Context, user models.User)
}

// AgentService manages agents on behalf of a caller and serves the public
// catalogue.
type AgentService interface {
	CreateAgent(ctx context.Context, caller models.User, in models.AgentCreate) (models.Agent, error)
	ListAgents(ctx context.Context, caller models.User, page models.Page) ([]models.Agent, error)
	GetAgent(ctx context.Context, caller models.User, id string) (models.Agent, error)
	UpdateAgent(ctx context.Context, caller models.User, id string, in models.AgentUpdate) (models.Agent, error)
	DeleteAgent(ctx context.Context, caller models.User, id string) error

	ListPublishedAgents(ctx context.Context, page models.Page) ([]models.Agent, error)
	GetPublishedAgent(ctx context.Context, id string) (models.Agent, error)
	ListPublishedAgentIDs(ctx context.Context) ([]string, error)
	FeaturedAgents(ctx context.Context, limit uint64) ([]models.Agent, error)
}

// AgentServiceWrapper decorates an AgentService, e.g. with validation.
type AgentServiceWrapper interface {
	Wrap(AgentService) AgentService
}

// FileService stores uploads through the file storage and keeps their
// metadata records.
type FileService interface {
	Upload(ctx context.Context, caller models.User, upload models.FileUpload) (models.File, error)
	ListFiles(ctx context.Context, caller models.User, agentID *string, page models.Page) ([]models.File, error)
	GetFile(ctx context.Context, caller models.User, id string) (models.File, error)
	Download(ctx context.Context, caller models.User, id string) (models.File, []byte, error)
	DeleteFile(ctx context.Context, caller models.User, id string) error
}

// StatsService records and aggregates daily agent counters.
type StatsService interface {
	ListStats(ctx context.Context, caller models.User, agentID string, dates models.DateRange) ([]models.AgentStats, error)
	UpsertStats(ctx context.Context, caller models.User, agentID string, in models.AgentStatsUpsert) (models.AgentStats, error)
	Summary(ctx context.Context, caller models.User, dates models.DateRange) (models.StatsSummary, error)
}

// AdminService exposes administrative views and moderation. Every method
// requires an admin caller.
type AdminService interface {
	Overview(ctx context.Context, caller models.User) (models.AdminOverview, error)
	ListUsers(ctx context.Context, caller models.User, page models.Page) ([]models.User, error)
	GetUser(ctx context.Context, caller models.User, id string) (models.User, error)
	SetUserStatus(ctx context.Context, caller models.User, id string, status models.UserStatus) (models.User, error)
	ListAgents(ctx context.Context, caller models.User, page models.Page) ([]models.Agent, error)
	GetAgent(ctx context.Context, caller models.User, id string) (models.Agent, error)
	SetAgentStatus(ctx context.Context, caller models.User, id string, status models.AgentStatus) (models.Agent, error)
	ListLogs(ctx context.Context, caller models.User, filter models.AdminLogFilter) ([]models.AdminLog, error)
}

// AppInfoService describes the running application.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	Info(ctx context.Context) models.AppInfo
	Health(ctx context.Context) models.HealthStatus
}
