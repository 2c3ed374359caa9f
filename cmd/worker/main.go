package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/rinsrhq/console-backend/internal/admins"
	"github.com/rinsrhq/console-backend/internal/notifications"
	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/db"
	"github.com/rinsrhq/console-backend/pkg/idempotency"
	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/pubsub"
	"github.com/rinsrhq/console-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "order-events-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "order-events-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub client", err)
		}
	}()

	subscription := pubsubClient.OrderEventsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "order events subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.ConsumerIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	// The worker has no websocket clients of its own; events are persisted
	// and redelivered to the api's hub via clients refetching. Broadcast and
	// tracker wiring stay nil here.
	consumer, err := notifications.NewConsumer(
		notifications.NewRepository(dbClient.DB()),
		admins.NewRepository(dbClient.DB()),
		nil,
		nil,
		manager,
		nil,
		logg,
	)
	requireResource(ctx, logg, "order events consumer", err)

	worker, err := notifications.NewWorker(subscription, consumer, logg)
	requireResource(ctx, logg, "order events worker", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})
	logg.Info(runCtx, "order events worker ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "order events worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
