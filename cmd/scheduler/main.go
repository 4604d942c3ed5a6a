package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	dashcache "pipeline_backend/internal/dashboard/cache"
	"pipeline_backend/internal/events"
	"pipeline_backend/internal/leads/domain"
	leadrepo "pipeline_backend/internal/leads/repository"
	leadsvc "pipeline_backend/internal/leads/service"
	"pipeline_backend/internal/scheduler"
	"pipeline_backend/platform/config"
	"pipeline_backend/platform/db"
	"pipeline_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// Warnings raised here must still invalidate the API's dashboard cache.
	if cache, err := dashcache.Connect(ctx, cfg); err != nil {
		log.Warn("dashboard cache invalidation disabled", "error", err)
	} else {
		defer func() { _ = cache.Close() }()
		eventBus.Subscribe(events.LeadSLAWarning{}.EventName(), events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
			return cache.Bump(ctx)
		}))
	}

	transitions, err := domain.LoadTransitionTable(cfg.GetLeadTransitionsFile())
	if err != nil {
		log.Error("failed to load lead transitions", "error", err)
		panic("failed to load lead transitions: " + err.Error())
	}
	leads := leadsvc.New(leadrepo.New(pool), eventBus, transitions, log)
	leads.SetSLAScheduler(nil, cfg.GetSLAReminderOffset())

	sweep := scheduler.NewSLASweep(leads, log, time.Hour)
	go sweep.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, leads, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
