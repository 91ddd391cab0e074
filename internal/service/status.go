package service

import (
	"context"

	"storesync-service/internal/models"
	"storesync-service/internal/util"

	"go.uber.org/zap"
)

// Status aggregates the ledger with live per-resource row counts for one
// store. Responses are served from the Redis cache when present; the
// database remains the source of truth.
func (s *SyncService) Status(ctx context.Context, storeID int64) (*models.SyncStatus, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.Status")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetSyncStatus(ctx, storeID)
		if err != nil {
			s.logger.Warn("Status cache read failed", zap.Error(err))
		} else if cached != nil {
			util.StatusCacheHits.Inc()
			return cached, nil
		}
		util.StatusCacheMisses.Inc()
	}

	lastSync, err := s.storage.LastSyncTime(ctx, storeID)
	if err != nil {
		return nil, NewSyncError(err, "failed to read last sync time")
	}

	counts, err := s.storage.CountRecords(ctx, storeID)
	if err != nil {
		return nil, NewSyncError(err, "failed to count records")
	}

	recent, err := s.storage.RecentSyncLogs(ctx, storeID, s.recentLimit)
	if err != nil {
		return nil, NewSyncError(err, "failed to read recent syncs")
	}

	status := &models.SyncStatus{
		LastSync:       lastSync,
		TotalOrders:    counts.Orders,
		TotalProducts:  counts.Products,
		TotalCustomers: counts.Customers,
		Status:         "synced",
		RecordCounts:   counts,
		RecentSyncs:    recent,
	}
	if lastSync == nil {
		status.Status = "never_synced"
	}

	if s.cache != nil {
		if err := s.cache.SetSyncStatus(ctx, storeID, status); err != nil {
			s.logger.Warn("Status cache write failed", zap.Error(err))
		}
	}

	return status, nil
}

// FailedSyncs lists this store's unresolved failed attempts, newest first
func (s *SyncService) FailedSyncs(ctx context.Context, storeID int64) ([]models.SyncLog, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.FailedSyncs")
	defer span.End()

	failed, err := s.storage.ListFailedSyncLogs(ctx, storeID)
	if err != nil {
		return nil, NewSyncError(err, "failed to list failed syncs")
	}
	return failed, nil
}
