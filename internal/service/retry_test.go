package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storesync-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFailedLog(storage *fakeStorage, storeID int64) *models.SyncLog {
	payload, _ := json.Marshal([]json.RawMessage{orderJSON(1001)})
	log := &models.SyncLog{
		ID:           uuid.New().String(),
		StoreID:      storeID,
		SyncType:     "bulk:orders",
		Resource:     models.ResourceOrder,
		Status:       models.SyncStatusFailed,
		ErrorMessage: "connection reset",
		Payload:      payload,
		CreatedAt:    time.Now().UTC(),
		CompletedAt:  time.Now().UTC(),
	}
	storage.logs = append(storage.logs, log)
	return log
}

func TestRetryRejectsMalformedID(t *testing.T) {
	storage := newFakeStorage()
	svc := NewSyncService(storage, nil, nil, 10)

	for _, id := range []string{
		"not-a-uuid",
		"",
		"123",
		"A2F47C1E-0000-4000-8000-000000000000", // uppercase is not canonical
		"{a2f47c1e-0000-4000-8000-000000000000}",
	} {
		_, err := svc.Retry(context.Background(), 1, id)
		require.Error(t, err, "id %q", id)
		assert.Equal(t, KindValidation, KindOf(err), "id %q", id)
	}

	assert.Zero(t, storage.getLogCalls, "malformed ids are rejected before any lookup")
	assert.Zero(t, storage.totalUpsertCalls())
	assert.Empty(t, storage.logs)
}

func TestRetryUnknownIDNotFound(t *testing.T) {
	storage := newFakeStorage()
	svc := NewSyncService(storage, nil, nil, 10)

	_, err := svc.Retry(context.Background(), 1, uuid.New().String())

	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRetryTenantIsolation(t *testing.T) {
	storage := newFakeStorage()
	log := seedFailedLog(storage, 1)
	svc := NewSyncService(storage, nil, nil, 10)

	// store 2 must not be able to retry, or learn of, store 1's log
	_, err := svc.Retry(context.Background(), 2, log.ID)

	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Zero(t, storage.totalUpsertCalls())
}

func TestRetrySucceededLogNotRetryable(t *testing.T) {
	storage := newFakeStorage()
	log := seedFailedLog(storage, 1)
	log.Status = models.SyncStatusSucceeded
	svc := NewSyncService(storage, nil, nil, 10)

	_, err := svc.Retry(context.Background(), 1, log.ID)

	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRetryResubmitsOriginalPayload(t *testing.T) {
	storage := newFakeStorage()
	original := seedFailedLog(storage, 1)
	svc := NewSyncService(storage, nil, nil, 10)

	result, err := svc.Retry(context.Background(), 1, original.ID)

	require.NoError(t, err)
	assert.True(t, result.Scheduled)
	assert.Equal(t, original.ID, result.SyncLogID)
	assert.Equal(t, 1, result.Upserted)

	// the original payload went back through the pipeline
	assert.Equal(t, 1, storage.upsertCalls[models.ResourceOrder])
	assert.Contains(t, storage.orders, key(1, 1001))

	// a new ledger row with the same provenance and a bumped retry count
	require.Len(t, storage.logs, 2)
	retried := storage.logs[1]
	assert.Equal(t, original.SyncType, retried.SyncType)
	assert.Equal(t, original.Resource, retried.Resource)
	assert.Equal(t, models.SyncStatusSucceeded, retried.Status)
	assert.Equal(t, 1, retried.RetryCount)

	// the original failed row is superseded, not mutated
	assert.Equal(t, models.SyncStatusFailed, storage.logs[0].Status)
	assert.True(t, storage.logs[0].Resolved)

	failed, err := storage.ListFailedSyncLogs(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, failed, "resolved rows leave the failed listing")
}

func TestRetryFailureAppendsNewFailedRow(t *testing.T) {
	storage := newFakeStorage()
	original := seedFailedLog(storage, 1)
	storage.upsertErr = errors.New("still broken")
	svc := NewSyncService(storage, nil, nil, 10)

	_, err := svc.Retry(context.Background(), 1, original.ID)

	require.Error(t, err)
	assert.Equal(t, KindSync, KindOf(err))

	require.Len(t, storage.logs, 2)
	retried := storage.logs[1]
	assert.Equal(t, models.SyncStatusFailed, retried.Status)
	assert.Equal(t, 1, retried.RetryCount)
	assert.Contains(t, retried.ErrorMessage, "still broken")

	assert.False(t, storage.logs[0].Resolved, "original stays visible until a retry succeeds")

	failed, err := storage.ListFailedSyncLogs(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, failed, 2)
}

func TestIsCanonicalUUID(t *testing.T) {
	valid := uuid.New().String()
	assert.True(t, isCanonicalUUID(valid))
	assert.False(t, isCanonicalUUID("urn:uuid:"+valid))
	assert.False(t, isCanonicalUUID("not-a-uuid"))
}
