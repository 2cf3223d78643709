package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookshelf/internal/book"
	"bookshelf/internal/httpx"
	"bookshelf/internal/listitem"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/platform/logger"
	"bookshelf/internal/platform/postgres"
	"bookshelf/internal/server"
	"bookshelf/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, config.Usage())
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	deps.Config = cfg
	deps.Logger = log
	deps.RateLimiter = httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("storage", cfg.StorageDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStores builds the repositories for the configured storage driver. The
// returned func releases them.
func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (server.Deps, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		books := book.NewMemoryRepo(book.Samples()...)
		return server.Deps{
			Users:     user.NewMemoryRepo(),
			Books:     books,
			ListItems: listitem.NewMemoryRepo(books),
		}, func() {}, nil
	}

	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return server.Deps{}, nil, err
	}
	log.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))

	return server.Deps{
		Users:     user.NewPostgresRepo(pool, cfg.QueryTimeout),
		Books:     book.NewPostgresRepo(pool, cfg.QueryTimeout),
		ListItems: listitem.NewPostgresRepo(pool, cfg.QueryTimeout),
		Ready:     pool.Ping,
	}, pool.Close, nil
}
