package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rinsrhq/console-backend/api/routes"
	"github.com/rinsrhq/console-backend/internal/admins"
	"github.com/rinsrhq/console-backend/internal/auth"
	"github.com/rinsrhq/console-backend/internal/guard"
	"github.com/rinsrhq/console-backend/internal/notifications"
	"github.com/rinsrhq/console-backend/internal/permissions"
	"github.com/rinsrhq/console-backend/internal/realtime"
	"github.com/rinsrhq/console-backend/internal/unread"
	"github.com/rinsrhq/console-backend/pkg/auth/session"
	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/db"
	"github.com/rinsrhq/console-backend/pkg/idempotency"
	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/metrics"
	"github.com/rinsrhq/console-backend/pkg/migrate"
	"github.com/rinsrhq/console-backend/pkg/pubsub"
	"github.com/rinsrhq/console-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	realtimeMetrics := metrics.NewRealtimeMetrics(registry)

	adminRepo := admins.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	adminsService, err := admins.NewService(adminRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create admins service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(dbClient.DB()),
		logg,
		realtimeMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	resolver := permissions.NewResolver(
		permissions.NewRepository(dbClient.DB()),
		cfg.Permissions.CacheTTL,
		logg,
	)

	hub := realtime.NewHub(logg, realtimeMetrics)
	tracker := unread.NewTracker()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Order events are consumed in-process so broadcasts reach this
	// instance's websocket clients. Pub/Sub trouble keeps the HTTP surface
	// up; live events resume once the subscription is reachable again.
	if pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg); err != nil {
		logg.Error(context.Background(), "pubsub unavailable, realtime ingestion disabled", err)
	} else {
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()

		manager, err := idempotency.NewManager(redisClient, cfg.Eventing.ConsumerIdempotencyTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create idempotency manager", err)
			os.Exit(1)
		}
		consumer, err := notifications.NewConsumer(
			notifications.NewRepository(dbClient.DB()),
			adminRepo,
			hub,
			tracker,
			manager,
			realtimeMetrics,
			logg,
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create order events consumer", err)
			os.Exit(1)
		}
		worker, err := notifications.NewWorker(pubsubClient.OrderEventsSubscription(), consumer, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create order events worker", err)
			os.Exit(1)
		}
		go func() {
			if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(context.Background(), "order events worker stopped", err)
			}
		}()
	}

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionManager: sessionManager,
		AuthService:    authService,
		AdminsService:  adminsService,
		Notifications:  notificationsService,
		Resolver:       resolver,
		Guard:          guard.New(resolver),
		Hub:            hub,
		Tracker:        tracker,
		Metrics:        registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
