package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/bookswap-backend/internal/config"
	"github.com/AnshRaj112/bookswap-backend/internal/handlers"
	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/middleware"
	"github.com/AnshRaj112/bookswap-backend/pkg/reqid"
)

type Options struct {
	Config      *config.Config
	Tokens      middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter // nil disables redis rate limiting
}

// NewRouter builds the full middleware chain and mounts every route.
func NewRouter(h *handlers.Handler, opts Options) *chi.Mux {
	cfg := opts.Config
	r := chi.NewRouter()

	r.Use(reqid.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production only: headers, host check, per-IP limits.
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
	}

	r.Use(opts.RateLimiter.Middleware)
	r.Use(middleware.Authenticate(opts.Tokens))

	SetupRoutes(r, h, cfg.AuthMode)
	return r
}
