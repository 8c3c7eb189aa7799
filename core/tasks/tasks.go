package tasks

import (
	"encoding/json"
	"sync"
	"time"

	"spotshare/core/config"
	"spotshare/core/constants"
	"spotshare/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// SlotFreedPayload rides on the slot-freed task from the HTTP path to the
// worker. Delivery failures retry on the queue; they never touch the
// transaction that freed the slot.
type SlotFreedPayload struct {
	SlotID    uuid.UUID `json:"slot_id"`
	SpotID    uuid.UUID `json:"spot_id"`
	SpotLabel string    `json:"spot_label,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func NewSlotFreedTask(payload SlotFreedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskTypeSlotFreed, data,
		asynq.MaxRetry(constants.SlotFreedTaskMaxRetries),
		asynq.Queue(constants.QueueDefault),
	), nil
}

func NewCompleteSweepTask() *asynq.Task {
	return asynq.NewTask(constants.TaskTypeCompleteSweep, nil, asynq.Queue(constants.QueueDefault))
}

var (
	client     *asynq.Client
	clientOnce sync.Once
)

// InitClient sets up the shared task queue client.
func InitClient(cfg config.RedisConfig) {
	clientOnce.Do(func() {
		client = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.QueueDB,
		})
	})
}

// Enqueue pushes a task onto the queue. Fire-and-forget: a down queue is
// logged, not surfaced to the request.
func Enqueue(task *asynq.Task, opts ...asynq.Option) {
	if client == nil {
		logger.Warn("Tasks:Enqueue:ClientNotInitialized", "type", task.Type())
		return
	}
	info, err := client.Enqueue(task, opts...)
	if err != nil {
		logger.Error("Tasks:Enqueue", "type", task.Type(), "error", err)
		return
	}
	logger.Debug("Tasks:Enqueue:Queued", "type", task.Type(), "task_id", info.ID)
}

func CloseClient() {
	if client != nil {
		if err := client.Close(); err != nil {
			logger.Error("Tasks:CloseClient", err)
		}
	}
}
