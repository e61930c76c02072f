package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/cirovladimir/ral-color-mix/internal/config"
	"github.com/cirovladimir/ral-color-mix/internal/db"
	"github.com/cirovladimir/ral-color-mix/internal/kv"
	"github.com/cirovladimir/ral-color-mix/internal/logger"
	"github.com/cirovladimir/ral-color-mix/internal/migrations"
	"github.com/cirovladimir/ral-color-mix/internal/mixes"
	"github.com/cirovladimir/ral-color-mix/internal/pricing"
	"github.com/cirovladimir/ral-color-mix/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "ral-color-mix",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := kv.NewLazy(openStore(cfg))

	if cfg.IsDev() {
		stats, err := seed.Run(ctx, store)
		if err != nil {
			logg.Error(ctx, "seed.failed", err)
			_ = store.Close()
			log.Fatalf("failed to seed store: %v", err)
		}
		logg.Info(logg.WithField(ctx, "inserts", stats.Inserts), "seed.complete")
	}

	srv := newServer(
		logg,
		mixes.NewKVStore(store, logg),
		mixes.NewDraftStore(store, logg),
		pricing.Params{BaseListPrice: cfg.BaseListPrice, SalePriceGross: pricing.DefaultSalePriceGross},
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{"addr": httpServer.Addr, "store": cfg.Store}), "server.listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server.stopped", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := multierr.Combine(httpServer.Shutdown(shutdownCtx), store.Close()); err != nil {
		logg.Error(shutdownCtx, "server.shutdown_failed", err)
		return
	}
	logg.Info(shutdownCtx, "server.shutdown_complete")
}

// openStore returns the opener for the configured backend. Nothing is
// opened until the store is first used.
func openStore(cfg config.Config) kv.Opener {
	switch cfg.Store {
	case config.StoreRedis:
		return func(ctx context.Context) (kv.Store, func() error, error) {
			r, err := kv.NewRedis(ctx, kv.RedisOptions{
				URL:      cfg.RedisURL,
				Address:  cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			if err != nil {
				return nil, nil, err
			}
			return r, r.Close, nil
		}
	case config.StoreMemory:
		return func(context.Context) (kv.Store, func() error, error) {
			return kv.NewMemory(), nil, nil
		}
	default:
		return func(ctx context.Context) (kv.Store, func() error, error) {
			database, err := db.Open(ctx, cfg.DBPath)
			if err != nil {
				return nil, nil, err
			}
			if err := migrations.Up(ctx, database); err != nil {
				return nil, nil, multierr.Append(err, database.Close())
			}
			return kv.NewSQLite(database), database.Close, nil
		}
	}
}
