package service

import (
	"context"
	"encoding/json"
	"time"

	"storesync-service/internal/models"
	"storesync-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage is the persistence surface the sync engine needs. The sqlx
// Postgres store satisfies it; tests substitute fakes.
type Storage interface {
	UpsertOrders(ctx context.Context, storeID int64, orders []models.OrderPayload) (int, error)
	UpsertProducts(ctx context.Context, storeID int64, products []models.ProductPayload) (int, error)
	UpsertCustomers(ctx context.Context, storeID int64, customers []models.CustomerPayload) (int, error)
	UpsertCategories(ctx context.Context, storeID int64, categories []models.CategoryPayload) (int, error)

	InsertSyncLog(ctx context.Context, log *models.SyncLog) error
	GetSyncLog(ctx context.Context, storeID int64, id string) (*models.SyncLog, error)
	MarkSyncLogResolved(ctx context.Context, storeID int64, id string) error
	ListFailedSyncLogs(ctx context.Context, storeID int64) ([]models.SyncLog, error)
	RecentSyncLogs(ctx context.Context, storeID int64, limit int) ([]models.SyncLog, error)
	LastSyncTime(ctx context.Context, storeID int64) (*time.Time, error)
	CountRecords(ctx context.Context, storeID int64) (models.RecordCounts, error)
}

// StatusCache is the optional read-model cache for sync status
type StatusCache interface {
	GetSyncStatus(ctx context.Context, storeID int64) (*models.SyncStatus, error)
	SetSyncStatus(ctx context.Context, storeID int64, status *models.SyncStatus) error
	InvalidateSyncStatus(ctx context.Context, storeID int64) error
}

// EventSink publishes sync outcomes for downstream analytics consumers
type EventSink interface {
	PublishSyncCompleted(ctx context.Context, event *models.SyncCompletedEvent) error
	PublishSyncFailed(ctx context.Context, event *models.SyncFailedEvent) error
}

// SyncService is the upsert pipeline plus its ledger, retry, and status
// read models. It holds no per-tenant state between requests.
type SyncService struct {
	storage     Storage
	cache       StatusCache
	events      EventSink
	logger      *zap.Logger
	recentLimit int
}

// NewSyncService creates a sync service. cache and events may be nil;
// both are best-effort collaborators.
func NewSyncService(storage Storage, cache StatusCache, events EventSink, recentLimit int) *SyncService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &SyncService{
		storage:     storage,
		cache:       cache,
		events:      events,
		logger:      util.GetLogger(),
		recentLimit: recentLimit,
	}
}

// WebhookRequest is a single-entity real-time notification
type WebhookRequest struct {
	Resource string          `json:"resource" binding:"required"`
	Action   string          `json:"action" binding:"required"`
	Data     json.RawMessage `json:"data"`
}

// SyncWebhook validates a webhook envelope, wraps the entity in a
// one-element batch and runs it through the upsert pipeline. The action
// is provenance only; created and updated take the same upsert path.
func (s *SyncService) SyncWebhook(ctx context.Context, storeID int64, req *WebhookRequest) (int, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.SyncWebhook")
	defer span.End()

	if !validResources[req.Resource] {
		return 0, NewValidationError("invalid resource %q", req.Resource)
	}
	if !validActions[req.Action] {
		return 0, NewValidationError("invalid action %q", req.Action)
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return 0, NewValidationError("data is required")
	}

	syncType := "webhook:" + models.Plural(req.Resource)
	return s.run(ctx, storeID, req.Resource, syncType, []json.RawMessage{req.Data}, 0)
}

// SyncBatch runs a bulk backfill batch for one resource through the
// upsert pipeline. An empty batch is a valid no-op.
func (s *SyncService) SyncBatch(ctx context.Context, storeID int64, resource string, entities []json.RawMessage) (int, error) {
	ctx, span := util.StartSpan(ctx, "SyncService.SyncBatch")
	defer span.End()

	if !validResources[resource] {
		return 0, NewValidationError("invalid resource %q", resource)
	}

	syncType := "bulk:" + models.Plural(resource)
	return s.run(ctx, storeID, resource, syncType, entities, 0)
}

// run is the upsert pipeline: validate, upsert the whole batch in one
// transaction, record the attempt in the ledger, publish the outcome.
// Validation failures return before any storage access or ledger write.
func (s *SyncService) run(ctx context.Context, storeID int64, resource, syncType string, entities []json.RawMessage, retryCount int) (int, error) {
	count, upsertErr := s.upsert(ctx, storeID, resource, entities)
	if upsertErr != nil {
		if KindOf(upsertErr) == KindValidation {
			return 0, upsertErr
		}
		util.SyncAttemptsTotal.WithLabelValues(resource, models.SyncStatusFailed).Inc()
		logID := s.recordAttempt(ctx, storeID, resource, syncType, entities, 0, upsertErr, retryCount)
		s.publishFailed(ctx, storeID, logID, resource, syncType, retryCount, upsertErr)
		return 0, upsertErr
	}

	util.SyncAttemptsTotal.WithLabelValues(resource, models.SyncStatusSucceeded).Inc()
	util.SyncUpsertsTotal.WithLabelValues(resource, syncType).Add(float64(count))
	logID := s.recordAttempt(ctx, storeID, resource, syncType, entities, count, nil, retryCount)
	s.publishCompleted(ctx, storeID, logID, resource, syncType, count)
	return count, nil
}

// upsert dispatches the batch to the resource's typed upsert. Each store
// method runs its batch inside a single transaction, so a failing entity
// rolls back the whole batch.
func (s *SyncService) upsert(ctx context.Context, storeID int64, resource string, entities []json.RawMessage) (int, error) {
	start := time.Now()
	defer func() {
		util.SyncBatchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	var count int
	var err error

	switch resource {
	case models.ResourceOrder:
		var orders []models.OrderPayload
		if orders, err = decodeOrders(entities); err == nil {
			count, err = s.storage.UpsertOrders(ctx, storeID, orders)
		}
	case models.ResourceProduct:
		var products []models.ProductPayload
		if products, err = decodeProducts(entities); err == nil {
			count, err = s.storage.UpsertProducts(ctx, storeID, products)
		}
	case models.ResourceCustomer:
		var customers []models.CustomerPayload
		if customers, err = decodeCustomers(entities); err == nil {
			count, err = s.storage.UpsertCustomers(ctx, storeID, customers)
		}
	case models.ResourceCategory:
		var categories []models.CategoryPayload
		if categories, err = decodeCategories(entities); err == nil {
			count, err = s.storage.UpsertCategories(ctx, storeID, categories)
		}
	default:
		return 0, NewValidationError("invalid resource %q", resource)
	}

	if err != nil {
		if KindOf(err) == KindValidation {
			return 0, err
		}
		return 0, NewSyncError(err, "upsert batch failed")
	}
	return count, nil
}

// recordAttempt appends the attempt to the ledger. Ledger writes are
// best-effort: a failure here is logged and counted but never fails the
// caller's response.
func (s *SyncService) recordAttempt(ctx context.Context, storeID int64, resource, syncType string, entities []json.RawMessage, count int, attemptErr error, retryCount int) string {
	payload, err := json.Marshal(entities)
	if err != nil {
		payload = []byte("[]")
	}

	log := &models.SyncLog{
		ID:            uuid.New().String(),
		StoreID:       storeID,
		SyncType:      syncType,
		Resource:      resource,
		Status:        models.SyncStatusSucceeded,
		UpsertedCount: count,
		Payload:       payload,
		RetryCount:    retryCount,
		CreatedAt:     time.Now().UTC(),
		CompletedAt:   time.Now().UTC(),
	}
	if attemptErr != nil {
		log.Status = models.SyncStatusFailed
		log.ErrorMessage = attemptErr.Error()
	}

	if err := s.storage.InsertSyncLog(ctx, log); err != nil {
		util.LedgerWriteFailures.Inc()
		s.logger.Error("Failed to record sync attempt",
			zap.Int64("store_id", storeID),
			zap.String("sync_type", syncType),
			zap.Error(err))
	}

	s.invalidateStatus(ctx, storeID)
	return log.ID
}

func (s *SyncService) publishCompleted(ctx context.Context, storeID int64, logID, resource, syncType string, count int) {
	if s.events == nil {
		return
	}
	event := &models.SyncCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSyncCompleted,
			Timestamp: time.Now(),
		},
		StoreID:   storeID,
		SyncLogID: logID,
		Resource:  resource,
		SyncType:  syncType,
		Upserted:  count,
	}
	if err := s.events.PublishSyncCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish SyncCompleted event", zap.Error(err))
	}
}

func (s *SyncService) publishFailed(ctx context.Context, storeID int64, logID, resource, syncType string, retryCount int, attemptErr error) {
	if s.events == nil {
		return
	}
	event := &models.SyncFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSyncFailed,
			Timestamp: time.Now(),
		},
		StoreID:    storeID,
		SyncLogID:  logID,
		Resource:   resource,
		SyncType:   syncType,
		RetryCount: retryCount,
		Error:      attemptErr.Error(),
	}
	if err := s.events.PublishSyncFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish SyncFailed event", zap.Error(err))
	}
}

func (s *SyncService) invalidateStatus(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSyncStatus(ctx, storeID); err != nil {
		s.logger.Warn("Failed to invalidate status cache",
			zap.Int64("store_id", storeID),
			zap.Error(err))
	}
}
