package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keystonenotary/dispatch-backend/api/controllers"
	"github.com/keystonenotary/dispatch-backend/api/routes"
	"github.com/keystonenotary/dispatch-backend/internal/checkout"
	"github.com/keystonenotary/dispatch-backend/internal/dispatch"
	"github.com/keystonenotary/dispatch-backend/internal/distance"
	"github.com/keystonenotary/dispatch-backend/internal/kpi"
	"github.com/keystonenotary/dispatch-backend/internal/notify"
	"github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/internal/pricing"
	"github.com/keystonenotary/dispatch-backend/internal/vendors"
	"github.com/keystonenotary/dispatch-backend/pkg/config"
	"github.com/keystonenotary/dispatch-backend/pkg/db"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
	"github.com/keystonenotary/dispatch-backend/pkg/maps"
	"github.com/keystonenotary/dispatch-backend/pkg/metrics"
	"github.com/keystonenotary/dispatch-backend/pkg/migrate"
	"github.com/keystonenotary/dispatch-backend/pkg/pubsub"
	"github.com/keystonenotary/dispatch-backend/pkg/redis"
)

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

	readyChecks := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

	var pubsubClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		readyChecks["pubsub"] = pubsubClient
	} else {
		logg.Warn(context.Background(), "gcp project not configured, notifications will be log-only")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	rateBook := pricing.DefaultRateBook()
	if cfg.Pricing.RateBookJSON != "" {
		rateBook, err = pricing.ParseRateBook(cfg.Pricing.RateBookJSON)
		if err != nil {
			logg.Error(context.Background(), "failed to parse rate book override", err)
			os.Exit(1)
		}
	}
	pricingEngine := pricing.NewEngine(rateBook)

	var distanceResolver *distance.Resolver
	if cfg.GoogleMaps.APIKey != "" {
		mapsOpts := []maps.Option{}
		if cfg.GoogleMaps.BaseURL != "" {
			mapsOpts = append(mapsOpts, maps.WithBaseURL(cfg.GoogleMaps.BaseURL))
		}
		mapsClient, mapsErr := maps.NewClient(cfg.GoogleMaps.APIKey, mapsOpts...)
		if mapsErr != nil {
			logg.Error(context.Background(), "failed to create maps client", mapsErr)
			os.Exit(1)
		}
		distanceResolver, err = distance.NewResolver(mapsClient, cfg.Pricing.OriginAddress, cfg.Dispatch.DistanceTimeout, dispatchMetrics, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create distance resolver", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "maps api key not configured, quotes will price without distance")
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, dbClient, orders.NewNumberSource(redisClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	vendorsRepo := vendors.NewRepository(dbClient.DB())

	var notifyService *notify.Service
	if pubsubClient != nil {
		notifyService, err = notify.NewService(pubsubClient.NotificationPublisher(), cfg.Dispatch.NotifyTimeout, logg)
	} else {
		notifyService, err = notify.NewService(nil, cfg.Dispatch.NotifyTimeout, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	dispatchService, err := dispatch.NewService(ordersService, vendorsRepo, notifyService, dispatchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	kpiService, err := kpi.NewService(ordersRepo, vendorsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create kpi service", err)
		os.Exit(1)
	}

	linkProvider, err := checkout.NewHostedLinkProvider(cfg.Checkout.PaymentBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment link provider", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(linkProvider, ordersService)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			ReadyChecks:      readyChecks,
			IdempotencyStore: redisClient,
			MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			PricingEngine:    pricingEngine,
			DistanceResolver: distanceResolver,
			OrdersService:    ordersService,
			VendorsRepo:      vendorsRepo,
			DispatchService:  dispatchService,
			KPIService:       kpiService,
			CheckoutService:  checkoutService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
