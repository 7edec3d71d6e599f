//go:build !gcloud

package main

import (
	"context"
	"os"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/config"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/logging"
)

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "reminder-dispatch"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName,
			Version: Version,
		},
		Environment:   env,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      cfg.LogLevel,
	})
}
