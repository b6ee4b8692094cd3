// Package grpc exposes the standard gRPC health service, backed by the same
// health checks as the HTTP /health endpoint.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/service"
	"github.com/MKhiriev/ai-pills/models"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "aipills.v1.API"

// Handler owns the health server registered on the gRPC transport.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Register installs the health and reflection services on s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)
}

// Refresh runs the application health checks and publishes the result. It
// returns the published status.
func (h *Handler) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if result := h.services.AppInfoService.Health(ctx); result.Status != models.HealthOK {
		h.logger.Warn().
			Str("func", "*Handler.Refresh").
			Str("database", result.Database).
			Str("storage", result.Storage).
			Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Shutdown reports NOT_SERVING to every watcher. Later updates are ignored.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
