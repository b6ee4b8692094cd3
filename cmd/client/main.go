package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/ai-pills/internal/adapter"
	"github.com/MKhiriev/ai-pills/internal/client"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Print(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		return
	}

	log := logger.NewConsoleLogger("ai-pills-client", os.Getenv("AIPILLS_LOG_LEVEL"))

	app := client.NewApp(adapter.NewHTTPAPIClient, os.Stdout, os.Stderr, log)
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
