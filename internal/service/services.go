package service

import (
	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
)

type Services struct {
	AuthService    AuthService
	AgentService   AgentService
	FileService    FileService
	StatsService   StatsService
	AdminService   AdminService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, storage filestore.FileStorage, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(storages.UserRepository, cfg, logger)
	if err != nil {
		return nil, err
	}

	appInfoService, err := NewAppInfoService(cfg, storages.Pinger, storage, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    authService,
		AgentService:   NewAgentService(storages.AgentRepository, cfg.Agents, logger),
		FileService:    NewFileService(storages, storage, cfg.Storage.Files, logger),
		StatsService:   NewStatsService(storages, logger),
		AdminService:   NewAdminService(storages, logger),
		AppInfoService: appInfoService,
	}, nil
}
