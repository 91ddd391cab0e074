package service

import (
	"context"
	"encoding/json"

	"storesync-service/internal/models"
	"storesync-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RetryResult is returned when a failed sync has been re-submitted
type RetryResult struct {
	Scheduled bool   `json:"scheduled"`
	SyncLogID string `json:"syncLogId"`
	Upserted  int    `json:"upserted"`
}

// Retry re-submits a failed sync attempt's original payload through the
// upsert pipeline with the same provenance. The lookup is scoped to the
// calling store: a foreign tenant's log id behaves exactly like a missing
// one. A successful re-submission marks the original failed row resolved
// so it drops out of the failed-syncs listing; a failed one appends a new
// failed row with the retry count incremented.
func (s *SyncService) Retry(ctx context.Context, storeID int64, syncLogID string) (*RetryResult, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.Retry")
	defer span.End()

	if !isCanonicalUUID(syncLogID) {
		return nil, NewValidationError("invalid sync log id %q", syncLogID)
	}

	log, err := s.storage.GetSyncLog(ctx, storeID, syncLogID)
	if err != nil {
		return nil, NewSyncError(err, "sync log lookup failed")
	}
	if log == nil || log.Status != models.SyncStatusFailed || log.Resolved {
		return nil, NewNotFoundError("sync log %s not found", syncLogID)
	}

	var entities []json.RawMessage
	if err := json.Unmarshal(log.Payload, &entities); err != nil {
		return nil, NewSyncError(err, "stored payload is unreadable")
	}

	util.SyncRetriesTotal.Inc()
	s.logger.Info("Retrying failed sync",
		zap.Int64("store_id", storeID),
		zap.String("sync_log_id", syncLogID),
		zap.String("sync_type", log.SyncType),
		zap.Int("retry_count", log.RetryCount+1))

	count, err := s.run(ctx, storeID, log.Resource, log.SyncType, entities, log.RetryCount+1)
	if err != nil {
		return nil, err
	}

	if err := s.storage.MarkSyncLogResolved(ctx, storeID, syncLogID); err != nil {
		s.logger.Error("Failed to mark sync log resolved",
			zap.String("sync_log_id", syncLogID),
			zap.Error(err))
	}

	return &RetryResult{Scheduled: true, SyncLogID: syncLogID, Upserted: count}, nil
}

// isCanonicalUUID accepts only the canonical lowercase form; uuid.Parse
// alone also admits uppercase, braced and URN variants.
func isCanonicalUUID(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.String() == s
}
