package main

import (
	"context"
	"net/http"
	"os"

	"github.com/beworking/beworking-backend/api/routes"
	"github.com/beworking/beworking-backend/internal/auth"
	"github.com/beworking/beworking-backend/internal/bookings"
	"github.com/beworking/beworking-backend/internal/mailbox"
	subscriptionsvc "github.com/beworking/beworking-backend/internal/subscriptions"
	"github.com/beworking/beworking-backend/internal/users"
	stripewebhook "github.com/beworking/beworking-backend/internal/webhooks/stripe"
	"github.com/beworking/beworking-backend/pkg/config"
	"github.com/beworking/beworking-backend/pkg/db"
	"github.com/beworking/beworking-backend/pkg/logger"
	"github.com/beworking/beworking-backend/pkg/metrics"
	"github.com/beworking/beworking-backend/pkg/migrate"
	"github.com/beworking/beworking-backend/pkg/redis"
	"github.com/beworking/beworking-backend/pkg/stripe"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
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

	// Payments stay optional: with no Stripe secrets the API still serves
	// everything except checkout and webhooks.
	var stripeClient *stripe.Client
	if cfg.Stripe.CheckoutConfigured() {
		stripeClient, err = stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "stripe not configured, checkout and webhooks disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{Repo: userRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(bookings.ServiceParams{
		Repo: bookings.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	mailboxService, err := mailbox.NewService(mailbox.ServiceParams{
		Repo: mailbox.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mailbox service", err)
		os.Exit(1)
	}

	var checkoutClient subscriptionsvc.CheckoutClient
	if stripeClient != nil {
		checkoutClient = stripeClient
	}
	subscriptionService, err := subscriptionsvc.NewService(subscriptionsvc.ServiceParams{
		UserRepo:       userRepo,
		CheckoutClient: checkoutClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)
	stripeWebhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Users: func(tx *gorm.DB) stripewebhook.UserStore {
			return userRepo.WithTx(tx)
		},
		TransactionRunner: dbClient,
		Logger:            logg,
		Metrics:           webhookMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	stripeWebhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.IdempotencyTTL, "stripe")
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency guard", err)
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:              cfg,
			Logger:              logg,
			DBPinger:            dbClient,
			RedisPinger:         redisClient,
			UserRepo:            userRepo,
			AuthService:         authService,
			UserService:         userService,
			BookingService:      bookingService,
			MailboxService:      mailboxService,
			SubscriptionService: subscriptionService,
			StripeClient:        stripeClient,
			StripeWebhookSvc:    stripeWebhookSvc,
			StripeWebhookGuard:  stripeWebhookGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
