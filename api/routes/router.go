package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/foodbridge-backend/api/controllers"
	"github.com/angelmondragon/foodbridge-backend/api/middleware"
	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/impact"
	"github.com/angelmondragon/foodbridge-backend/internal/pickups"
	"github.com/angelmondragon/foodbridge-backend/internal/zones"
	"github.com/angelmondragon/foodbridge-backend/pkg/config"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/angelmondragon/foodbridge-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/foodbridge-backend/pkg/redis"
)

// KeyValueStore is the redis surface the HTTP layer needs.
type KeyValueStore interface {
	controllers.Pinger
	middleware.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error)
}

// Params carries everything NewRouter wires.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       KeyValueStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Donations donations.Service
	Donors    donors.Service
	Zones     zones.Service
	Pickups   pickups.Service
	Impact    impact.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.Service.CORSOrigins),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
	)

	intakePolicy := middleware.NewRateLimitPolicy(
		"donations",
		cfg.Intake.RateLimitWindow,
		cfg.Intake.RateLimitPerIP,
		cfg.Intake.RateLimitPerDonor,
	)

	// a nil store interface keeps redis-backed middleware disabled
	var (
		idemStore middleware.IdempotencyStore
		rateStore middleware.RateLimiterStore
		redisPing controllers.Pinger
	)
	if p.Redis != nil {
		idemStore = p.Redis
		rateStore = p.Redis
		redisPing = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisPing))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/zones", controllers.ListZones(p.Zones, logg))
		r.Get("/impact", controllers.ImpactStats(p.Impact, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.DonorContext(p.Donors, cfg.Intake.DemoDonorEmail, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.With(middleware.RateLimit(intakePolicy, rateStore, logg)).
				Post("/donations", controllers.SubmitDonation(p.Donations, logg))
			r.Get("/donors/me/dashboard", controllers.DonorDashboard(p.Donors, logg))
		})

		r.Route("/pickups", func(r chi.Router) {
			r.Use(middleware.Idempotency(idemStore, logg))
			r.Get("/", controllers.ListPendingPickups(p.Pickups, logg))
			r.Post("/{pickupId}/accept", controllers.AcceptPickup(p.Pickups, logg))
			r.Post("/{pickupId}/complete", controllers.CompletePickup(p.Pickups, logg))
		})
	})

	return r
}
