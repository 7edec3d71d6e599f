package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/config"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/handler"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/health"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/claim"
	fsinfra "github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/firestore"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/push"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/sweeprecorder"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/logging"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/metrics"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/middleware"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/scheduler"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/event"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/sweep"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/token"
)

// Version is set via ldflags at build time
var Version = "dev"

const serviceModule logging.Module = "reminder-dispatch"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		slog.Error("failed to initialize reminder metrics", slog.String("error", err.Error()))
		return 1
	}

	// Sweep result recorder (InfluxDB for local, BigQuery for gcloud)
	resultRecorder, err := sweeprecorder.NewRecorder(ctx, sweeprecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize sweep result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close sweep result recorder", slog.String("error", err.Error()))
		}
	}()

	clientOpts := firebaseClientOptions(cfg.Firebase)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, clientOpts...)
	if err != nil {
		slog.Error("failed to initialize firebase app", slog.String("error", err.Error()))
		return 1
	}

	firestoreClient, err := firestore.NewClientWithDatabase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.DatabaseID, clientOpts...)
	if err != nil {
		slog.Error("failed to initialize firestore client", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := firestoreClient.Close(); err != nil {
			slog.Warn("failed to close firestore client", slog.String("error", err.Error()))
		}
	}()

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		slog.Error("failed to initialize messaging client", slog.String("error", err.Error()))
		return 1
	}

	slog.Info("firebase initialized",
		slog.String("project_id", cfg.Firebase.ProjectID),
		slog.String("database_id", cfg.Firebase.DatabaseID),
		slog.Bool("emulator", cfg.Firebase.UsesEmulator()),
		slog.Bool("push_dry_run", cfg.Firebase.PushDryRun),
	)

	dependencies := []health.Dependency{{
		Name: "firestore",
		Probe: func(ctx context.Context) error {
			return fsinfra.Ping(ctx, firestoreClient)
		},
	}}

	claimStore := claim.NewNoopStore()
	if cfg.Redis.Enabled() {
		redisClient, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		claimStore = claim.NewRedisStore(redisClient)
		dependencies = append(dependencies, health.RedisDependency(redisClient))

		slog.Info("redis connected",
			slog.String("addr", cfg.Redis.Addr),
		)
	} else {
		slog.Warn("REDIS_ADDR not set, delivery claims disabled")
	}

	sweepService, notifier := newServices(cfg, firestoreClient, push.NewGateway(messagingClient, cfg.Firebase.PushDryRun), claimStore, resultRecorder, reminderMetrics)

	var sweepScheduler *scheduler.Scheduler
	if cfg.Sweep.SchedulerEnabled {
		sweepScheduler = scheduler.New(sweepService, cfg.Sweep.Interval())
		if err := sweepScheduler.Start(ctx); err != nil {
			slog.Error("failed to start sweep scheduler", slog.String("error", err.Error()))
			return 1
		}
	}

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		TracerName:  "github.com/KasumiMercury/primind-reminder-dispatch/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	health.NewChecker(Version, dependencies...).RegisterRoutes(r)
	handler.RegisterRoutes(r, handler.NewSweepHandler(sweepService), handler.NewNotificationHandler(notifier))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("lookahead_minutes", cfg.Sweep.LookaheadMinutes),
			slog.Int("sweep_concurrency", cfg.Sweep.Concurrency),
			slog.Bool("scheduler_enabled", cfg.Sweep.SchedulerEnabled),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if sweepScheduler != nil {
			if err := sweepScheduler.Stop(shutdownCtx); err != nil {
				slog.Warn("sweep scheduler did not stop in time", slog.String("error", err.Error()))
			}
		}
		cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func newServices(
	cfg *config.Config,
	firestoreClient *firestore.Client,
	gateway push.Gateway,
	claimStore domain.DeliveryClaimStore,
	resultRecorder domain.SweepResultRecorder,
	reminderMetrics *metrics.ReminderMetrics,
) (*sweep.Service, *event.Notifier) {
	resolver := token.NewResolver(fsinfra.NewTokenRepository(firestoreClient))
	dispatcher := dispatch.NewDispatcher(gateway, reminderMetrics)

	sweepService := sweep.NewService(
		fsinfra.NewReminderRepository(firestoreClient, cfg.Sweep.RemindersCollection),
		resolver,
		dispatcher,
		claimStore,
		resultRecorder,
		reminderMetrics,
		sweep.Options{
			Lookahead:   cfg.Sweep.Lookahead(),
			ClaimTTL:    cfg.Sweep.Interval(),
			Concurrency: cfg.Sweep.Concurrency,
		},
	)

	return sweepService, event.NewNotifier(resolver, dispatcher, reminderMetrics)
}

func firebaseClientOptions(cfg *config.FirebaseConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

func newRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
