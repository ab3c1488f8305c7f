package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/rasoilink/rasoilink-backend/api/controllers"
	"github.com/rasoilink/rasoilink-backend/api/routes"
	"github.com/rasoilink/rasoilink-backend/internal/grouporders"
	"github.com/rasoilink/rasoilink-backend/internal/inventory"
	"github.com/rasoilink/rasoilink-backend/internal/membership"
	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/otp"
	"github.com/rasoilink/rasoilink-backend/internal/payments"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/internal/users"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/auth/session"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	"github.com/rasoilink/rasoilink-backend/pkg/migrate"
	"github.com/rasoilink/rasoilink-backend/pkg/pubsub"
	"github.com/rasoilink/rasoilink-backend/pkg/redis"
	"github.com/rasoilink/rasoilink-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

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

	var closers []func() error
	closeAll := func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error closing resources", errs)
		}
	}

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		closeAll()
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		closeAll()
		os.Exit(1)
	}
	closers = append(closers, redisClient.Close)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		closeAll()
		os.Exit(1)
	}

	health := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var events notify.Publisher = notify.NoopPublisher{}
	if cfg.GCP.ProjectID != "" {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			closeAll()
			os.Exit(1)
		}
		closers = append(closers, psClient.Close)
		health["pubsub"] = psClient
		events = notify.NewPubSubPublisher(
			psClient.OrdersPublisher(),
			psClient.InventoryPublisher(),
			cfg.PubSub.PublishRetries,
			logg,
		)
	} else {
		logg.Warn(context.Background(), "pubsub not configured, dropping domain events")
	}

	var mediaSigner controllers.MediaSigner
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			closeAll()
			os.Exit(1)
		}
		closers = append(closers, gcsClient.Close)
		health["gcs"] = gcsClient
		mediaSigner = gcsClient
	} else {
		logg.Warn(context.Background(), "gcs not configured, media uploads disabled")
	}

	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	vendorsRepo := vendors.NewRepository(conn)
	suppliersRepo := suppliers.NewRepository(conn)
	ordersRepo := grouporders.NewRepository(conn)
	memberRepo := membership.NewRepository(conn)

	zonesSvc, err := zones.NewService(zones.ServiceParams{Repo: zones.NewRepository(conn)})
	fatalOnErr(logg, "zone service", err)

	vendorsSvc, err := vendors.NewService(vendors.ServiceParams{
		Repo:     vendorsRepo,
		Zones:    zonesSvc,
		UserRepo: usersRepo,
	})
	fatalOnErr(logg, "vendor service", err)

	suppliersSvc, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:     suppliersRepo,
		Zones:    zonesSvc,
		UserRepo: usersRepo,
	})
	fatalOnErr(logg, "supplier service", err)

	inventorySvc, err := inventory.NewService(inventory.ServiceParams{
		Repo:   inventory.NewRepository(conn),
		Events: events,
	})
	fatalOnErr(logg, "inventory service", err)

	groupOrdersSvc, err := grouporders.NewService(grouporders.ServiceParams{
		Repo:      ordersRepo,
		Suppliers: suppliersRepo,
		Zones:     zonesSvc,
		Items:     inventorySvc,
		Events:    events,
		Orders:    cfg.Orders,
	})
	fatalOnErr(logg, "group order service", err)

	membershipSvc, err := membership.NewService(membership.ServiceParams{
		Repo:    memberRepo,
		Orders:  ordersRepo,
		Vendors: vendorsRepo,
		Events:  events,
	})
	fatalOnErr(logg, "membership service", err)

	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Repo:    memberRepo,
		Orders:  ordersRepo,
		Gateway: payments.NewSimulatedGateway(cfg.Payment),
		Events:  events,
		Logger:  logg,
	})
	fatalOnErr(logg, "payment service", err)

	smsSender, err := otp.NewSender(cfg.SMS, logg)
	fatalOnErr(logg, "sms sender", err)

	otpSvc, err := otp.NewService(otp.ServiceParams{
		Store:     redisClient,
		Keys:      redisClient,
		Users:     usersRepo,
		Vendors:   vendorsRepo,
		Suppliers: suppliersRepo,
		Sessions:  sessionManager,
		Sender:    smsSender,
		JWT:       cfg.JWT,
		OTP:       cfg.OTP,
		Logger:    logg,
	})
	fatalOnErr(logg, "otp service", err)

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		Sessions:        sessionManager,
		Health:          health,
		OTP:             otpSvc,
		Zones:           zonesSvc,
		Vendors:         vendorsSvc,
		Suppliers:       suppliersSvc,
		Users:           usersRepo,
		Inventory:       inventorySvc,
		GroupOrders:     groupOrdersSvc,
		Membership:      membershipSvc,
		Payments:        paymentsSvc,
		Media:           mediaSigner,
		MetricsRegistry: metricsRegistry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}

	closeAll()
	logg.Info(ctx, "api server stopped")
}

func fatalOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
