package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
	"ShopBot/pkg/kit"
)

// Pinger is implemented by persistence backends that can report liveness.
// The snapshot-file backend has nothing to probe and leaves it nil.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	Catalog *catalog.Store
	Carts   *cart.Store
	Pinger  Pinger

	MetricsEnabled bool
	MetricsToken   string

	// Mutating requests allowed per user per window; 0 disables limiting.
	RateLimit       int
	RateLimitWindow int
}

func NewHandler(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(d.Log))

	setupMetrics(r, d)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", d.readyz)

	cs := &catalog.Server{Store: d.Catalog, Log: d.Log}
	r.Mount("/", cs.Routes())

	carts := &cart.Server{Store: d.Carts, Log: d.Log}
	r.Group(func(pr chi.Router) {
		pr.Use(cart.RequireUser)

		pr.Get("/cart", carts.SummaryHandler())

		pr.Group(func(mr chi.Router) {
			if d.RateLimit > 0 {
				rl := kit.NewRateLimiter(d.RateLimit, d.RateLimitWindow, userOrClientIP)
				mr.Use(rl.Middleware)
			}
			mr.Post("/cart/items", carts.AddItemHandler())
			mr.Delete("/cart", carts.ClearHandler())
			mr.Post("/checkout", carts.CheckoutHandler())
		})
	})

	return r
}

func setupMetrics(r *chi.Mux, d Deps) {
	if d.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(d.Registry)
	r.Use(metrics.Middleware(d.Service, kit.ChiRoutePatternOrPath))

	if !d.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(d.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
}

func (d Deps) readyz(w http.ResponseWriter, r *http.Request) {
	if d.Pinger == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := d.Pinger.Ping(ctx); err != nil {
		if d.Log != nil {
			d.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func userOrClientIP(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-Id")); id != "" {
		return id
	}
	return kit.ClientIP(r)
}
