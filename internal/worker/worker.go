package worker

import (
	"context"

	"storesync-service/internal/broker"
	"storesync-service/internal/models"
	"storesync-service/internal/service"
	"storesync-service/internal/util"

	"go.uber.org/zap"
)

// SyncEventWorker consumes sync events and invalidates the status cache
// for the affected store, so status reads stay fresh when the sync was
// recorded by another instance. The cache TTL bounds staleness anyway;
// this tightens the window.
type SyncEventWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewSyncEventWorker creates a new sync event worker
func NewSyncEventWorker(consumer *broker.Consumer, cache service.StatusCache) *SyncEventWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler()

	eventHandler.OnSyncCompleted(func(ctx context.Context, event *models.SyncCompletedEvent) error {
		logger.Info("Sync completed",
			zap.Int64("store_id", event.StoreID),
			zap.String("resource", event.Resource),
			zap.String("sync_type", event.SyncType),
			zap.Int("upserted", event.Upserted))
		return cache.InvalidateSyncStatus(ctx, event.StoreID)
	})

	eventHandler.OnSyncFailed(func(ctx context.Context, event *models.SyncFailedEvent) error {
		logger.Warn("Sync failed",
			zap.Int64("store_id", event.StoreID),
			zap.String("sync_log_id", event.SyncLogID),
			zap.String("error", event.Error))
		return cache.InvalidateSyncStatus(ctx, event.StoreID)
	})

	return &SyncEventWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *SyncEventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sync event worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SyncEventWorker) Stop() error {
	w.logger.Info("Stopping sync event worker")
	return w.consumer.Close()
}
