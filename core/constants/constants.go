package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Timeouts
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
)

// Database pool defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Asynq task types and queues
const (
	TaskTypeSlotFreed       = "notification:slot_freed"
	TaskTypeCompleteSweep   = "booking:complete_sweep"
	QueueDefault            = "default"
	CompleteSweepInterval   = time.Minute
	SlotFreedTaskMaxRetries = 5
)

// Redis cache keys
const (
	CacheKeyNearestSlots = "slots:nearest"
	CacheNearestSlotsTTL = 30 * time.Second
)
