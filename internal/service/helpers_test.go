package service

import (
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/mock"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
	"go.uber.org/mock/gomock"
)

var errDB = errors.New("db is down")

var (
	developer = models.User{ID: "dev-1", Email: "dev@example.com", Role: models.RoleDeveloper, IsActive: true}
	stranger  = models.User{ID: "dev-2", Email: "other@example.com", Role: models.RoleDeveloper, IsActive: true}
	admin     = models.User{ID: "adm-1", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
)

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			Name:        "AI Pills",
			Version:     "1.2.3",
			Environment: config.EnvTesting,
		},
		Auth: config.Auth{
			TokenSignKey:             "test-secret",
			Algorithm:                "HS256",
			TokenIssuer:              "ai-pills-test",
			AccessTokenExpireMinutes: 30,
			ResetTokenTTL:            config.Duration(time.Hour),
			PasswordMinLength:        8,
			BcryptCost:               4,
		},
		Storage: config.Storage{
			Files: config.Files{
				Backend:                  config.BackendLocal,
				AllowedArchiveExtensions: []string{".zip", ".tar.gz"},
			},
		},
		Server: config.Server{APIPrefix: "/api/v1"},
		Agents: config.Agents{
			MaxPerUser:           3,
			MaxTags:              2,
			NameMaxLength:        20,
			DescriptionMaxLength: 50,
		},
	}
}

// repos holds one gomock controller and a mock per repository.
type repos struct {
	users  *mock.MockUserRepository
	agents *mock.MockAgentRepository
	files  *mock.MockFileRepository
	stats  *mock.MockStatsRepository
	logs   *mock.MockAdminLogRepository
	pinger *mock.MockPinger
}

func newRepos(t *testing.T) (*repos, *store.Storages) {
	t.Helper()
	ctrl := gomock.NewController(t)

	r := &repos{
		users:  mock.NewMockUserRepository(ctrl),
		agents: mock.NewMockAgentRepository(ctrl),
		files:  mock.NewMockFileRepository(ctrl),
		stats:  mock.NewMockStatsRepository(ctrl),
		logs:   mock.NewMockAdminLogRepository(ctrl),
		pinger: mock.NewMockPinger(ctrl),
	}
	return r, &store.Storages{
		UserRepository:     r.users,
		AgentRepository:    r.agents,
		FileRepository:     r.files,
		StatsRepository:    r.stats,
		AdminLogRepository: r.logs,
		Pinger:             r.pinger,
	}
}

func ptr[T any](v T) *T {
	return &v
}
