package store

import (
	"context"
	"time"

	"github.com/MKhiriev/ai-pills/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

type UserRepository interface {
	// CreateUser inserts user. A duplicate email or username leaves no
	// record behind.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context, page models.Page) ([]models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetUserActive(ctx context.Context, id string, active bool) (models.User, error)
	CountUsers(ctx context.Context) (total, active int64, err error)
}

type AgentRepository interface {
	CreateAgent(ctx context.Context, agent models.Agent) (models.Agent, error)
	FindAgentByID(ctx context.Context, id string) (models.Agent, error)
	ListAgents(ctx context.Context, filter models.AgentFilter) ([]models.Agent, error)
	ListPublishedAgentIDs(ctx context.Context) ([]string, error)
	CountAgentsByOwner(ctx context.Context, ownerID string) (int64, error)
	// UpdateAgent overwrites every mutable column of agent and writes it
	// back with the current schema version.
	UpdateAgent(ctx context.Context, agent models.Agent) (models.Agent, error)
	DeleteAgent(ctx context.Context, id string) error
	CountAgents(ctx context.Context) (total, published int64, err error)
}

type FileRepository interface {
	CreateFile(ctx context.Context, file models.File) (models.File, error)
	FindFileByID(ctx context.Context, id string) (models.File, error)
	// FindFileByLocator returns the oldest record pointing at storagePath
	// on the given backend.
	FindFileByLocator(ctx context.Context, storageType, storagePath string) (models.File, error)
	// UpdateFile rewrites the content describing fields of an existing
	// record: content type, size, URL, file type and agent.
	UpdateFile(ctx context.Context, file models.File) (models.File, error)
	ListFiles(ctx context.Context, filter models.FileFilter) ([]models.File, error)
	// ListFilesAfter pages through every file in id order, starting after
	// afterID. It is used by background reconciliation.
	ListFilesAfter(ctx context.Context, afterID string, limit uint64) ([]models.File, error)
	DeleteFile(ctx context.Context, id string) error
	CountFiles(ctx context.Context) (int64, error)
}

type StatsRepository interface {
	// UpsertStats keeps a single row per (agent, date).
	UpsertStats(ctx context.Context, stats models.AgentStats) (models.AgentStats, error)
	ListStats(ctx context.Context, agentID string, dates models.DateRange) ([]models.AgentStats, error)
	Summary(ctx context.Context, dates models.DateRange) (models.StatsSummary, error)
}

type AdminLogRepository interface {
	CreateLog(ctx context.Context, entry models.AdminLog) (models.AdminLog, error)
	ListLogs(ctx context.Context, filter models.AdminLogFilter) ([]models.AdminLog, error)
}

// Pinger reports database reachability for health checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}
