package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"FoodCart/internal/catalog"
	"FoodCart/internal/session"
	"FoodCart/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry
	Sessions *session.Manager

	MetricsEnabled bool
	MetricsToken   string

	CheckoutLimitPerMin int
	TrustProxy          bool
}

const readyTimeout = 1 * time.Second

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if deps.Log == nil {
		deps.Log = s.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	checkoutLimiter := kit.NewIPRateLimiter(deps.CheckoutLimitPerMin, time.Minute)
	checkoutLimiter.TrustProxy = deps.TrustProxy
	catalogAPI := &catalog.Server{Store: s.Catalog, Log: s.Log}

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.ready)
	r.Handle("/static/*", staticFiles())

	r.Group(func(pr chi.Router) {
		pr.Use(kit.NoStore)
		pr.Use(deps.Sessions.Middleware)

		pr.Get("/", s.menu)
		pr.Get("/cart", s.cartPage)
		pr.Post("/cart/items/{id}", s.addItem)
		pr.Post("/cart/items/{id}/quantity", s.setQuantity)
		pr.Post("/cart/items/{id}/remove", s.removeItem)
		pr.With(checkoutLimiter.Middleware).Post("/checkout", s.checkoutPage)
		pr.Post("/preferences/dark-mode", s.toggleDarkMode)

		pr.Route("/api", func(ar chi.Router) {
			catalogAPI.Mount(ar)

			ar.Get("/cart", s.apiGetCart)
			ar.Delete("/cart", s.apiClear)
			ar.Post("/cart/items", s.apiAddItem)
			ar.Put("/cart/items/{id}", s.apiSetQuantity)
			ar.Delete("/cart/items/{id}", s.apiRemoveItem)
			ar.With(checkoutLimiter.Middleware).Post("/checkout", s.apiCheckout)

			ar.Get("/preferences", s.apiGetPreferences)
			ar.Put("/preferences", s.apiPutPreferences)
		})
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: catalog", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
		return
	}
	if err := s.Storage.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: storage", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "storage not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}
