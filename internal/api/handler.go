package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"storesync-service/internal/models"
	"storesync-service/internal/service"
	"storesync-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncAPI is the sync engine surface the HTTP layer depends on
type SyncAPI interface {
	SyncWebhook(ctx context.Context, storeID int64, req *service.WebhookRequest) (int, error)
	SyncBatch(ctx context.Context, storeID int64, resource string, entities []json.RawMessage) (int, error)
	Status(ctx context.Context, storeID int64) (*models.SyncStatus, error)
	FailedSyncs(ctx context.Context, storeID int64) ([]models.SyncLog, error)
	Retry(ctx context.Context, storeID int64, syncLogID string) (*service.RetryResult, error)
}

// Handler contains HTTP handlers
type Handler struct {
	sync SyncAPI
}

// NewHandler creates a new HTTP handler
func NewHandler(sync SyncAPI) *Handler {
	return &Handler{sync: sync}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sync := router.Group("/api/v1/sync")
	sync.Use(requireStore())
	{
		sync.POST("/webhook", h.webhook)
		sync.POST("/orders", h.batchSync(models.ResourceOrder))
		sync.POST("/products", h.batchSync(models.ResourceProduct))
		sync.POST("/customers", h.batchSync(models.ResourceCustomer))
		sync.POST("/categories", h.batchSync(models.ResourceCategory))
		sync.GET("/status", h.syncStatus)
		sync.GET("/failed", h.failedSyncs)
		sync.POST("/retry/:syncLogId", h.retrySync)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// webhook handles single-entity real-time notifications
func (h *Handler) webhook(c *gin.Context) {
	var req service.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.NewValidationError("invalid request body: %v", err))
		return
	}

	count, err := h.sync.SyncWebhook(c.Request.Context(), storeID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"upserted": count})
}

// batchSync returns the bulk ingress handler for one resource. The body
// must carry the pluralized resource as its array field; an empty array
// is a valid no-op backfill.
func (h *Handler) batchSync(resource string) gin.HandlerFunc {
	field := models.Plural(resource)

	return func(c *gin.Context) {
		var body map[string]json.RawMessage
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, service.NewValidationError("invalid request body: %v", err))
			return
		}

		raw, ok := body[field]
		if !ok {
			respondError(c, service.NewValidationError("%s is required", field))
			return
		}

		var entities []json.RawMessage
		if err := json.Unmarshal(raw, &entities); err != nil {
			respondError(c, service.NewValidationError("%s must be an array", field))
			return
		}

		count, err := h.sync.SyncBatch(c.Request.Context(), storeID(c), resource, entities)
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, gin.H{"upserted": count})
	}
}

// syncStatus handles the sync status read model
func (h *Handler) syncStatus(c *gin.Context) {
	status, err := h.sync.Status(c.Request.Context(), storeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, status)
}

// failedSyncs lists the caller's unresolved failed attempts
func (h *Handler) failedSyncs(c *gin.Context) {
	failed, err := h.sync.FailedSyncs(c.Request.Context(), storeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"failedSyncs": failed})
}

// retrySync re-submits a failed sync attempt
func (h *Handler) retrySync(c *gin.Context) {
	result, err := h.sync.Retry(c.Request.Context(), storeID(c), c.Param("syncLogId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// respondOK writes the success envelope
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError maps error kinds to status codes at the HTTP boundary
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    string(kind),
			"message": err.Error(),
		},
	})
}

// requireStore extracts the tenant installed by the upstream auth proxy.
// Tenant resolution itself happens upstream; a request arriving without
// the header is malformed.
func requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-Store-ID"), 10, 64)
		if err != nil || id <= 0 {
			respondError(c, service.NewValidationError("missing or invalid X-Store-ID header"))
			c.Abort()
			return
		}
		c.Set("store_id", id)
		c.Next()
	}
}

func storeID(c *gin.Context) int64 {
	return c.GetInt64("store_id")
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
