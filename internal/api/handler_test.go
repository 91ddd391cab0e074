package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storesync-service/internal/models"
	"storesync-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type webhookCall struct {
	storeID int64
	req     *service.WebhookRequest
}

type batchCall struct {
	storeID  int64
	resource string
	entities []json.RawMessage
}

// fakeSync records calls and returns canned results
type fakeSync struct {
	webhookCalls []webhookCall
	batchCalls   []batchCall
	retryIDs     []string

	upserted int
	err      error

	status *models.SyncStatus
	failed []models.SyncLog
	retry  *service.RetryResult
}

func (f *fakeSync) SyncWebhook(ctx context.Context, storeID int64, req *service.WebhookRequest) (int, error) {
	f.webhookCalls = append(f.webhookCalls, webhookCall{storeID, req})
	return f.upserted, f.err
}

func (f *fakeSync) SyncBatch(ctx context.Context, storeID int64, resource string, entities []json.RawMessage) (int, error) {
	f.batchCalls = append(f.batchCalls, batchCall{storeID, resource, entities})
	if f.err != nil {
		return 0, f.err
	}
	return len(entities), nil
}

func (f *fakeSync) Status(ctx context.Context, storeID int64) (*models.SyncStatus, error) {
	return f.status, f.err
}

func (f *fakeSync) FailedSyncs(ctx context.Context, storeID int64) ([]models.SyncLog, error) {
	return f.failed, f.err
}

func (f *fakeSync) Retry(ctx context.Context, storeID int64, syncLogID string) (*service.RetryResult, error) {
	f.retryIDs = append(f.retryIDs, syncLogID)
	return f.retry, f.err
}

func setupRouter(sync SyncAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(sync).SetupRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body []byte, storeHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if storeHeader != "" {
		req.Header.Set("X-Store-ID", storeHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMissingStoreHeaderRejected(t *testing.T) {
	sync := &fakeSync{}
	router := setupRouter(sync)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/sync/webhook"},
		{http.MethodPost, "/api/v1/sync/orders"},
		{http.MethodGet, "/api/v1/sync/status"},
		{http.MethodGet, "/api/v1/sync/failed"},
	} {
		w := doRequest(router, tc.method, tc.path, []byte(`{}`), "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
	}

	assert.Empty(t, sync.webhookCalls)
	assert.Empty(t, sync.batchCalls)
}

func TestWebhookSuccessEnvelope(t *testing.T) {
	sync := &fakeSync{upserted: 1}
	router := setupRouter(sync)

	payload := []byte(`{"resource":"order","action":"created","data":{"wc_order_id":1}}`)
	w := doRequest(router, http.MethodPost, "/api/v1/sync/webhook", payload, "7")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["upserted"])

	require.Len(t, sync.webhookCalls, 1)
	call := sync.webhookCalls[0]
	assert.Equal(t, int64(7), call.storeID)
	assert.Equal(t, "order", call.req.Resource)
	assert.Equal(t, "created", call.req.Action)
}

func TestWebhookValidationErrorEnvelope(t *testing.T) {
	sync := &fakeSync{err: service.NewValidationError("invalid resource %q", "invalid")}
	router := setupRouter(sync)

	payload := []byte(`{"resource":"invalid","action":"created","data":{}}`)
	w := doRequest(router, http.MethodPost, "/api/v1/sync/webhook", payload, "7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestWebhookMalformedBodyRejectedBeforeService(t *testing.T) {
	sync := &fakeSync{}
	router := setupRouter(sync)

	w := doRequest(router, http.MethodPost, "/api/v1/sync/webhook", []byte(`{not json`), "7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sync.webhookCalls)
}

func TestBatchSyncRoutesResource(t *testing.T) {
	cases := []struct {
		path     string
		field    string
		resource string
	}{
		{"/api/v1/sync/orders", "orders", models.ResourceOrder},
		{"/api/v1/sync/products", "products", models.ResourceProduct},
		{"/api/v1/sync/customers", "customers", models.ResourceCustomer},
		{"/api/v1/sync/categories", "categories", models.ResourceCategory},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			sync := &fakeSync{}
			router := setupRouter(sync)

			payload := []byte(`{"` + tc.field + `":[{"a":1},{"a":2}]}`)
			w := doRequest(router, http.MethodPost, tc.path, payload, "3")

			assert.Equal(t, http.StatusOK, w.Code)
			body := decodeBody(t, w)
			data := body["data"].(map[string]interface{})
			assert.Equal(t, float64(2), data["upserted"])

			require.Len(t, sync.batchCalls, 1)
			call := sync.batchCalls[0]
			assert.Equal(t, int64(3), call.storeID)
			assert.Equal(t, tc.resource, call.resource)
			assert.Len(t, call.entities, 2)
		})
	}
}

func TestBatchSyncEmptyArray(t *testing.T) {
	sync := &fakeSync{}
	router := setupRouter(sync)

	w := doRequest(router, http.MethodPost, "/api/v1/sync/orders", []byte(`{"orders":[]}`), "3")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["upserted"])

	require.Len(t, sync.batchCalls, 1)
	assert.Empty(t, sync.batchCalls[0].entities)
}

func TestBatchSyncMissingFieldRejected(t *testing.T) {
	sync := &fakeSync{}
	router := setupRouter(sync)

	w := doRequest(router, http.MethodPost, "/api/v1/sync/orders", []byte(`{}`), "3")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/sync/orders", []byte(`{"orders":"nope"}`), "3")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, sync.batchCalls)
}

func TestSyncStatusEnvelope(t *testing.T) {
	sync := &fakeSync{status: &models.SyncStatus{
		Status:       "synced",
		TotalOrders:  2,
		RecordCounts: models.RecordCounts{Orders: 2, Products: 1},
	}}
	router := setupRouter(sync)

	w := doRequest(router, http.MethodGet, "/api/v1/sync/status", nil, "3")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "synced", data["status"])
	assert.Equal(t, float64(2), data["totalOrders"])
	counts := data["recordCounts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["products"])
}

func TestFailedSyncsEnvelope(t *testing.T) {
	sync := &fakeSync{failed: []models.SyncLog{
		{ID: "a2f47c1e-0000-4000-8000-000000000000", Status: models.SyncStatusFailed},
	}}
	router := setupRouter(sync)

	w := doRequest(router, http.MethodGet, "/api/v1/sync/failed", nil, "3")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	failed := data["failedSyncs"].([]interface{})
	assert.Len(t, failed, 1)
}

func TestRetryStatusMapping(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sync := &fakeSync{retry: &service.RetryResult{
			Scheduled: true,
			SyncLogID: "a2f47c1e-0000-4000-8000-000000000000",
		}}
		router := setupRouter(sync)

		w := doRequest(router, http.MethodPost,
			"/api/v1/sync/retry/a2f47c1e-0000-4000-8000-000000000000", nil, "3")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["scheduled"])
		assert.Equal(t, "a2f47c1e-0000-4000-8000-000000000000", data["syncLogId"])
	})

	t.Run("malformed id", func(t *testing.T) {
		sync := &fakeSync{err: service.NewValidationError("invalid sync log id")}
		router := setupRouter(sync)

		w := doRequest(router, http.MethodPost, "/api/v1/sync/retry/not-a-uuid", nil, "3")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		sync := &fakeSync{err: service.NewNotFoundError("sync log not found")}
		router := setupRouter(sync)

		w := doRequest(router, http.MethodPost,
			"/api/v1/sync/retry/a2f47c1e-0000-4000-8000-000000000000", nil, "3")

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		errObj := body["error"].(map[string]interface{})
		assert.Equal(t, "NOT_FOUND", errObj["code"])
	})

	t.Run("pipeline failure", func(t *testing.T) {
		sync := &fakeSync{err: service.NewSyncError(assert.AnError, "upsert batch failed")}
		router := setupRouter(sync)

		w := doRequest(router, http.MethodPost,
			"/api/v1/sync/retry/a2f47c1e-0000-4000-8000-000000000000", nil, "3")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		errObj := body["error"].(map[string]interface{})
		assert.Equal(t, "SYNC_ERROR", errObj["code"])
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := setupRouter(&fakeSync{})

	w := doRequest(router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
