package service

import (
	"context"
	"os"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

const (
	componentUp   = "connected"
	componentDown = "disconnected"
)

type appInfoService struct {
	info models.AppInfo

	db      store.Pinger
	storage filestore.FileStorage

	logger *logger.Logger
}

func NewAppInfoService(cfg config.StructuredConfig, db store.Pinger, storage filestore.FileStorage, logger *logger.Logger) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Name:           cfg.App.Name,
			Version:        cfg.App.Version,
			Environment:    string(cfg.App.Environment),
			StorageBackend: cfg.Storage.Files.Backend,
			APIPrefix:      cfg.Server.APIPrefix,
		},
		db:      db,
		storage: storage,
		logger:  logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.info.Version
}

func (s *appInfoService) Info(ctx context.Context) models.AppInfo {
	return s.info
}

// Health pings the database and checks that the storage is usable. Remote
// backends are reported as connected; the local backend must have its base
// directory.
func (s *appInfoService) Health(ctx context.Context) models.HealthStatus {
	status := models.HealthStatus{
		Status:   models.HealthOK,
		Database: componentUp,
		Storage:  componentUp,
	}

	if err := s.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*appInfoService.Health").Msg("database ping failed")
		status.Status = models.HealthDegraded
		status.Database = componentDown
	}

	if dir, ok := s.storage.PublicDir(); ok {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			logger.FromContext(ctx).Error().Err(err).Str("func", "*appInfoService.Health").Str("dir", dir).Msg("storage directory unavailable")
			status.Status = models.HealthDegraded
			status.Storage = componentDown
		}
	}
	if s.storage.Backend() == filestore.BackendGridFS {
		status.Storage = string(filestore.BackendGridFS) + " (not implemented)"
	}

	return status
}
