package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rasoilink/rasoilink-backend/internal/cron"
	"github.com/rasoilink/rasoilink-backend/internal/grouporders"
	"github.com/rasoilink/rasoilink-backend/internal/inventory"
	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db"
	"github.com/rasoilink/rasoilink-backend/pkg/instance"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	"github.com/rasoilink/rasoilink-backend/pkg/metrics"
	"github.com/rasoilink/rasoilink-backend/pkg/migrate"
	"github.com/rasoilink/rasoilink-backend/pkg/pubsub"
	"github.com/rasoilink/rasoilink-backend/pkg/redis"
)

const expireLockName = "expire-orders"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	var events notify.Publisher = notify.NoopPublisher{}
	if cfg.GCP.ProjectID != "" {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		events = notify.NewPubSubPublisher(
			psClient.OrdersPublisher(),
			psClient.InventoryPublisher(),
			cfg.PubSub.PublishRetries,
			logg,
		)
	}

	conn := dbClient.DB()

	zonesSvc, err := zones.NewService(zones.ServiceParams{Repo: zones.NewRepository(conn)})
	if err != nil {
		logg.Error(context.Background(), "failed to create zone service", err)
		os.Exit(1)
	}

	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Repo:   inventory.NewRepository(conn),
		Events: events,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	groupOrdersSvc, err := grouporders.NewService(grouporders.ServiceParams{
		Repo:      grouporders.NewRepository(conn),
		Suppliers: suppliers.NewRepository(conn),
		Zones:     zonesSvc,
		Items:     inventorySvc,
		Events:    events,
		Orders:    cfg.Orders,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create group order service", err)
		os.Exit(1)
	}

	expireJob, err := cron.NewExpireOrdersJob(cron.ExpireOrdersJobParams{
		Logger: logg,
		Orders: groupOrdersSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create expire orders job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(expireLockName), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expireJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
