package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ShopBot/internal/bot"
	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
	"ShopBot/internal/dispatch"
	"ShopBot/pkg/kit"
)

func main() {
	service := "shop-bot"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	dsn := getenv("CART_DSN", "")
	snapshot := getenv("CART_FILE", "carts.json")

	persister, err := cart.Open(dsn, snapshot)
	if err != nil {
		log.Fatal("open cart backend", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	cat := catalog.NewStore()
	carts := cart.NewStore(context.Background(), cat, persister,
		log, cart.NewMetrics(registry))

	d := &dispatch.Dispatcher{Catalog: cat, Carts: carts, Log: log}

	b, err := bot.New(token, d, log)
	if err != nil {
		log.Fatal("bot init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runOps(getenv("OPS_PORT", "8081"), registry, log)

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("bot stopped", zap.Error(err))
	}
	log.Info("shutdown complete")
}

// runOps serves liveness and metrics for the bot process.
func runOps(port string, registry *prometheus.Registry, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Warn("ops server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
