package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beworking/beworking-backend/api/controllers"
	webhookcontrollers "github.com/beworking/beworking-backend/api/controllers/webhooks"
	"github.com/beworking/beworking-backend/api/middleware"
	"github.com/beworking/beworking-backend/internal/auth"
	"github.com/beworking/beworking-backend/internal/bookings"
	"github.com/beworking/beworking-backend/internal/mailbox"
	subscriptionsvc "github.com/beworking/beworking-backend/internal/subscriptions"
	"github.com/beworking/beworking-backend/internal/users"
	stripewebhook "github.com/beworking/beworking-backend/internal/webhooks/stripe"
	"github.com/beworking/beworking-backend/pkg/config"
	"github.com/beworking/beworking-backend/pkg/db"
	"github.com/beworking/beworking-backend/pkg/logger"
	"github.com/beworking/beworking-backend/pkg/redis"
	"github.com/beworking/beworking-backend/pkg/stripe"
)

// RouterParams bundles everything the HTTP layer depends on.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisPinger redis.Pinger

	UserRepo *users.Repository

	AuthService         auth.Service
	UserService         users.Service
	BookingService      bookings.Service
	MailboxService      mailbox.Service
	SubscriptionService subscriptionsvc.Service

	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(
			p.StripeWebhookSvc,
			p.StripeClient,
			p.StripeWebhookGuard,
			cfg.Stripe.WebhookTolerance,
			logg,
		))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWT, p.UserRepo, logg))
		r.Use(middleware.RequireAuth(logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UsersMe(p.UserService, logg))
			r.Put("/me", controllers.UsersUpdateProfile(p.UserService, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsList(p.BookingService, logg))
			r.Post("/", controllers.BookingsCreate(p.BookingService, logg))
			r.Delete("/{bookingID}", controllers.BookingsDelete(p.BookingService, logg))
		})

		r.Route("/mailbox", func(r chi.Router) {
			r.Get("/", controllers.MailboxList(p.MailboxService, logg))
			r.Post("/", controllers.MailboxCreate(p.MailboxService, logg))
			r.Delete("/{itemID}", controllers.MailboxDelete(p.MailboxService, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/checkout", controllers.SubscriptionsCheckout(p.SubscriptionService, logg))
		})
	})

	if !cfg.App.IsProd() {
		r.Route("/api/support/v1", func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWT, p.UserRepo, logg))
			r.Use(middleware.RequireAuth(logg))
			r.Put("/users/{userID}/subscription-status", controllers.SubscriptionsOverrideStatus(p.SubscriptionService, logg))
		})
	}

	return r
}
