package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/handler"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/server"
	"github.com/MKhiriev/ai-pills/internal/service"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/internal/workers"
	"github.com/MKhiriev/ai-pills/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Print(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("ai-pills-server", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("ai-pills-server", cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	files, err := filestore.New(ctx, cfg.Storage.Files, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating file storage")
	}

	services, err := service.NewServices(storages, files, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(storages, files, cfg, log), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
