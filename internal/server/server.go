// Package server boots the HTTP process: configuration, connections,
// background workers, the middleware stack, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/jobs"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/routes"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/config"
	_ "github.com/EdwardBKTay/online-shopping-platform-backend-clone/database/migrations"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/database/seeders"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/cache"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/metrics"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/middleware"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/migration"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/reqid"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/router"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/schedule"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/storage"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots every subsystem and serves HTTP until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}
	// The category taxonomy is fixed and must exist before any product
	// is created.
	if err := seeders.SeedCategories(database.DB); err != nil {
		return err
	}

	// The cache is optional. Without Redis the product list cache is
	// skipped and the queue falls back to the in-process driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, continuing without cache", "error", err)
	}

	storage.Connect()

	jobs.Register()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)

	userRepo := repositories.NewUserRepository(database.DB)
	schedule.Hourly().Name("verifications:prune").Run(func() {
		n, err := userRepo.DeleteExpiredVerifications()
		if err != nil {
			logger.Error("pruning expired verifications failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("pruned expired verifications", "count", n)
		}
	})
	schedule.Start(ctx)

	r := router.New()

	// Global middleware, outermost first.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r, database.DB)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
