package main

import (
	"context"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ShopBot/internal/api"
	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
	"ShopBot/pkg/kit"
)

func main() {
	service := "shop-api"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
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

	pinger, _ := persister.(api.Pinger)

	h := api.NewHandler(api.Deps{
		Log:      log,
		Service:  service,
		Registry: registry,

		Catalog: cat,
		Carts:   carts,
		Pinger:  pinger,

		MetricsEnabled: getenv("METRICS_ENABLED", "0") == "1",
		MetricsToken:   getenv("METRICS_TOKEN", ""),

		RateLimit:       getenvInt("RATE_LIMIT", 30),
		RateLimitWindow: getenvInt("RATE_LIMIT_WINDOW", 60),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
