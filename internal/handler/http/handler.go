package http

import (
	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/service"
)

// Handler serves the REST API on top of the service layer.
type Handler struct {
	services *service.Services

	server config.Server
	files  config.Files

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		server:   cfg.Server,
		files:    cfg.Storage.Files,
		logger:   logger,
	}
}
