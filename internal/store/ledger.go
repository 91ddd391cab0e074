package store

import (
	"context"
	"database/sql"

	"storesync-service/internal/models"
)

// InsertSyncLog appends one attempt to the sync ledger. Rows are terminal
// on insert; only the resolved flag is ever flipped afterwards.
func (s *Store) InsertSyncLog(ctx context.Context, log *models.SyncLog) error {
	query := `
		INSERT INTO sync_logs (
			id, store_id, sync_type, resource, status, upserted_count,
			error_message, payload, retry_count, resolved, created_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		log.ID, log.StoreID, log.SyncType, log.Resource, log.Status,
		log.UpsertedCount, log.ErrorMessage, []byte(log.Payload),
		log.RetryCount, log.Resolved, log.CreatedAt, log.CompletedAt)
	return err
}

// GetSyncLog retrieves one ledger row scoped to the calling store. A
// foreign tenant's id yields (nil, nil), indistinguishable from a missing
// row.
func (s *Store) GetSyncLog(ctx context.Context, storeID int64, id string) (*models.SyncLog, error) {
	var log models.SyncLog
	err := s.db.GetContext(ctx, &log,
		"SELECT * FROM sync_logs WHERE id = $1 AND store_id = $2",
		id, storeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// MarkSyncLogResolved flips the resolved flag after a retry succeeds
func (s *Store) MarkSyncLogResolved(ctx context.Context, storeID int64, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE sync_logs SET resolved = TRUE WHERE id = $1 AND store_id = $2",
		id, storeID)
	return err
}

// ListFailedSyncLogs returns the store's unresolved failed attempts,
// newest first.
func (s *Store) ListFailedSyncLogs(ctx context.Context, storeID int64) ([]models.SyncLog, error) {
	logs := []models.SyncLog{}
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM sync_logs WHERE store_id = $1 AND status = $2 AND resolved = FALSE ORDER BY created_at DESC",
		storeID, models.SyncStatusFailed)
	return logs, err
}

// RecentSyncLogs returns the store's most recent attempts, newest first
func (s *Store) RecentSyncLogs(ctx context.Context, storeID int64, limit int) ([]models.SyncLog, error) {
	logs := []models.SyncLog{}
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM sync_logs WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2",
		storeID, limit)
	return logs, err
}
