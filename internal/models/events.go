package models

import "time"

// Event types
const (
	EventTypeSyncCompleted = "SYNC_COMPLETED"
	EventTypeSyncFailed    = "SYNC_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncCompletedEvent published after a sync attempt succeeds
type SyncCompletedEvent struct {
	BaseEvent
	StoreID   int64  `json:"store_id"`
	SyncLogID string `json:"sync_log_id"`
	Resource  string `json:"resource"`
	SyncType  string `json:"sync_type"`
	Upserted  int    `json:"upserted"`
}

// SyncFailedEvent published after a sync attempt fails
type SyncFailedEvent struct {
	BaseEvent
	StoreID    int64  `json:"store_id"`
	SyncLogID  string `json:"sync_log_id"`
	Resource   string `json:"resource"`
	SyncType   string `json:"sync_type"`
	RetryCount int    `json:"retry_count"`
	Error      string `json:"error"`
}
