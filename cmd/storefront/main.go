package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"FoodCart/internal/cart"
	"FoodCart/internal/catalog"
	"FoodCart/internal/checkout"
	"FoodCart/internal/session"
	"FoodCart/internal/storage"
	"FoodCart/internal/storefront"
	"FoodCart/pkg/config"
	"FoodCart/pkg/kit"
)

const (
	service        = "storefront"
	startupTimeout = 15 * time.Second
	sweepInterval  = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service, "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	products, kv, closeDB, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open stores failed", zap.Error(err))
	}
	defer closeDB()

	if ex, ok := kv.(storage.Expirer); ok {
		stop := make(chan struct{})
		defer close(stop)
		go sweepSessions(ex, cfg.SessionTTL, log, stop)
	}

	tokens, err := session.NewTokenMaker(cfg.SessionSecret)
	if err != nil {
		log.Fatal("init session tokens failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &storefront.Server{
		Catalog:     products,
		Storage:     kv,
		Checkout:    &checkout.Service{Log: log, Metrics: checkout.NewMetrics(reg)},
		CartMetrics: cart.NewMetrics(reg),
		Log:         log,
		Currency:    cfg.CurrencySymbol,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: reg,
		Sessions: &session.Manager{
			Tokens: tokens,
			TTL:    cfg.SessionTTL,
			Secure: cfg.AppEnv != config.EnvDev,
			Log:    log,
		},
		MetricsEnabled:      cfg.MetricsEnabled,
		MetricsToken:        cfg.MetricsToken,
		CheckoutLimitPerMin: cfg.CheckoutLimitPerMin,
		TrustProxy:          cfg.TrustProxy,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openStores picks in-memory stores when no DATABASE_URL is configured and
// Postgres otherwise.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (catalog.Store, storage.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory stores")
		return catalog.NewStore(), storage.NewMemStore(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	products := catalog.NewPostgresStore(db)
	kv := storage.NewPostgresStore(db)

	if err := products.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	if err := kv.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}

	n, err := products.Seed(ctx, catalog.Defaults())
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	log.Info("catalog seeded", zap.Int("inserted", n))

	return products, kv, func() { _ = db.Close() }, nil
}

// sweepSessions drops storage of sessions whose cookie can no longer be
// valid.
func sweepSessions(kv storage.Expirer, ttl time.Duration, log *zap.Logger, stop <-chan struct{}) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			n, err := kv.Expire(context.Background(), now.Add(-ttl))
			if err != nil {
				log.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("expired session storage", zap.Int64("rows", n))
			}
		}
	}
}
