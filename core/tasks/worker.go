package tasks

import (
	"context"
	"encoding/json"

	"spotshare/core/config"
	"spotshare/core/constants"
	"spotshare/core/logger"

	"github.com/hibiken/asynq"
)

// SlotFreedHandler delivers one freed-slot event to matching subscribers.
type SlotFreedHandler func(ctx context.Context, payload SlotFreedPayload) error

// CompleteSweepHandler flips confirmed bookings past their end time to
// completed.
type CompleteSweepHandler func(ctx context.Context) error

// Worker runs the background queue: subscription delivery plus the periodic
// completion sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.QueueDB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{constants.QueueDefault: 1},
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
	}
}

func (w *Worker) HandleSlotFreed(handler SlotFreedHandler) {
	w.mux.HandleFunc(constants.TaskTypeSlotFreed, func(ctx context.Context, t *asynq.Task) error {
		var payload SlotFreedPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("Worker:SlotFreed:Unmarshal", err)
			return err
		}
		return handler(ctx, payload)
	})
}

func (w *Worker) HandleCompleteSweep(handler CompleteSweepHandler) {
	w.mux.HandleFunc(constants.TaskTypeCompleteSweep, func(ctx context.Context, t *asynq.Task) error {
		return handler(ctx)
	})
}

// Start launches the queue server and registers the recurring sweep.
func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(
		"@every "+constants.CompleteSweepInterval.String(),
		NewCompleteSweepTask(),
	); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		return err
	}
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}
