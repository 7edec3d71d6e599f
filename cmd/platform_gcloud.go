//go:build gcloud

package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/config"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "reminder-dispatch"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = cfg.Firebase.ProjectID
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      cfg.LogLevel,
	})
}
