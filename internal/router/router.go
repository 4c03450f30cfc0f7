package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"friday-chat/internal/handlers"
	"friday-chat/internal/metrics"
	"friday-chat/internal/middleware"
)

// New wires every route behind the same admission chain: origin policy first,
// then the rate limiter. m may be nil, which disables /metrics.
func New(
	log *zap.Logger,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
	allowedOrigins []string,
	trustProxy bool,
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if trustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware(m))
	r.Use(middleware.Origins(allowedOrigins, m))
	r.Use(limiter.Middleware)

	// Health check
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", healthHandler.Diagnostics)
		r.Post("/chat", chatHandler.Chat)
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	return r
}
