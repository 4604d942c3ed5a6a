package scheduler

import (
	"context"
	"fmt"

	"pipeline_backend/platform/config"
	"pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// SLAChecker handles a fired SLA reminder.
type SLAChecker interface {
	CheckSLA(ctx context.Context, leadID uuid.UUID) error
}

// Worker consumes lead tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	checker SLAChecker
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, checker SLAChecker, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(checker, log)
	w.server = server
	return w, nil
}

func newWorker(checker SLAChecker, log *logger.Logger) *Worker {
	w := &Worker{
		mux:     asynq.NewServeMux(),
		checker: checker,
		log:     log,
	}
	w.mux.HandleFunc(TaskLeadSLACheck, w.handleLeadSLACheck)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadSLACheck(ctx context.Context, task *asynq.Task) error {
	leadID, err := ParseLeadSLACheckPayload(task)
	if err != nil {
		w.log.Warn("dropping sla check task", "error", err)
		return err
	}

	if err := w.checker.CheckSLA(ctx, leadID); err != nil {
		w.log.Error("sla check failed", "leadId", leadID, "error", err)
		return err
	}
	return nil
}
