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

	"pipeline_backend/internal/adapters"
	"pipeline_backend/internal/auth"
	"pipeline_backend/internal/closers"
	"pipeline_backend/internal/dashboard"
	dashcache "pipeline_backend/internal/dashboard/cache"
	"pipeline_backend/internal/distribution"
	"pipeline_backend/internal/email"
	"pipeline_backend/internal/events"
	apphttp "pipeline_backend/internal/http"
	"pipeline_backend/internal/http/router"
	"pipeline_backend/internal/leads"
	"pipeline_backend/internal/scheduler"
	"pipeline_backend/internal/services"
	"pipeline_backend/platform/config"
	"pipeline_backend/platform/db"
	"pipeline_backend/platform/logger"
	"pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	slaScheduler, closeScheduler := initSLAScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	dashboardCache, closeCache := initDashboardCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Welcome mail is event driven and has no routes.
	email.NewNotifier(email.NewSender(cfg), cfg.GetAppBaseURL(), eventBus, log)
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; vendedor welcome emails disabled")
	}

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	servicesModule := services.NewModule(pool, val, log)
	closersModule := closers.NewModule(pool, val, log)

	leadsModule, err := leads.NewModule(pool, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	if slaScheduler != nil {
		leadsModule.EnableSLAReminders(slaScheduler, cfg)
	}

	// Distribution assigns through the leads service so batch and manual
	// assignment share validation, activity and events.
	leadAssigner := adapters.NewDistributionLeadAssigner(leadsModule.Service())
	distributionModule := distribution.NewModule(pool, leadAssigner, eventBus, val, log)

	dashboardModule := dashboard.NewModule(pool, dashboardCache, eventBus, log)

	if cfg.GetBootstrapAdminEmail() != "" {
		if err := authModule.Service().EnsureBootstrapAdmin(ctx, cfg.GetBootstrapAdminEmail(), cfg.GetBootstrapAdminPassword()); err != nil {
			log.Error("failed to bootstrap administrator", "error", err)
			panic("failed to bootstrap administrator: " + err.Error())
		}
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			servicesModule,
			closersModule,
			leadsModule,
			distributionModule,
			dashboardModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initSLAScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead SLA reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize sla scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// initDashboardCache returns a nil interface when Redis is absent so the
// dashboard computes every request.
func initDashboardCache(ctx context.Context, cfg config.DashboardConfig, log *logger.Logger) (dashcache.Cache, func()) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	c, err := dashcache.Connect(ctx, cfg)
	if err != nil {
		log.Warn("dashboard cache disabled", "error", err)
		return nil, nil
	}

	return c, func() {
		_ = c.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
