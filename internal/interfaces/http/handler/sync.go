package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	syncapp "github.com/tecbunny/backend/internal/application/sync"
	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/interfaces/http/dto"
)

// SyncLock serializes sync runs for a named scope. A nil lock disables
// serialization (single-instance deployments and tests).
type SyncLock interface {
	Acquire(ctx context.Context, scope string) (bool, error)
	Release(ctx context.Context, scope string) error
}

// SyncHandler exposes the synchronization operations over HTTP
type SyncHandler struct {
	BaseHandler
	service *syncapp.Service
	lock    SyncLock
	log     *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service *syncapp.Service, lock SyncLock, log *zap.Logger) *SyncHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncHandler{service: service, lock: lock, log: log}
}

// RegisterRoutes registers sync routes on the given router group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sync/status", h.Status)
	rg.POST("/sync/full", h.FullSync)
	rg.POST("/sync/customers", h.SyncCustomers)
	rg.POST("/sync/products", h.SyncProducts)
	rg.POST("/sync/orders", h.SyncOrders)
}

// Status reports whether the store and the external integration are usable
func (h *SyncHandler) Status(c *gin.Context) {
	h.Success(c, dto.SyncStatusResponse{
		StoreConfigured:       h.service.StoreConfigured(),
		IntegrationConfigured: h.service.IntegrationConfigured(c.Request.Context()),
	})
}

// FullSync runs a multi-module sync pass
func (h *SyncHandler) FullSync(c *gin.Context) {
	var req dto.FullSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	if !h.service.StoreConfigured() {
		h.ErrorWithCode(c, dto.ErrCodeNotConfigured, "Store configuration missing")
		return
	}

	direction := integration.SyncDirection(req.Direction)
	if req.Direction == "" {
		direction = integration.DirectionToExternal
	}
	if !direction.IsValid() {
		h.BadRequest(c, "invalid sync direction")
		return
	}

	modules := make([]integration.SyncModule, 0, len(req.Modules))
	for _, m := range req.Modules {
		modules = append(modules, integration.SyncModule(m))
	}

	if !h.acquire(c, "full") {
		return
	}
	defer h.release(c, "full")

	results := h.service.FullSync(c.Request.Context(), integration.SyncOptions{
		Direction: direction,
		Modules:   modules,
		BatchSize: req.BatchSize,
		DryRun:    req.DryRun,
	})

	h.Success(c, buildFullSyncResponse(direction, results))
}

// SyncCustomers pushes customers to the external CRM
func (h *SyncHandler) SyncCustomers(c *gin.Context) {
	req, opts, ok := h.bindEntityRequest(c)
	if !ok {
		return
	}
	if req.Direction != "" && integration.SyncDirection(req.Direction) != integration.DirectionToExternal {
		h.BadRequest(c, "customers sync only supports direction to_external")
		return
	}

	if !h.acquire(c, "customers") {
		return
	}
	defer h.release(c, "customers")

	h.respondResult(c, h.service.SyncCustomersToExternal(c.Request.Context(), opts))
}

// SyncProducts syncs products in the requested direction
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	req, opts, ok := h.bindEntityRequest(c)
	if !ok {
		return
	}
	direction := integration.SyncDirection(req.Direction)
	if req.Direction == "" {
		direction = integration.DirectionToExternal
	}
	if !direction.IsValid() {
		h.BadRequest(c, "invalid sync direction")
		return
	}

	if !h.acquire(c, "products") {
		return
	}
	defer h.release(c, "products")

	h.respondResult(c, h.service.SyncProducts(c.Request.Context(), direction, opts))
}

// SyncOrders pushes sales orders to the external ERP
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	req, opts, ok := h.bindEntityRequest(c)
	if !ok {
		return
	}
	if req.Direction != "" && integration.SyncDirection(req.Direction) != integration.DirectionToExternal {
		h.BadRequest(c, "orders sync only supports direction to_external")
		return
	}

	if !h.acquire(c, "orders") {
		return
	}
	defer h.release(c, "orders")

	h.respondResult(c, h.service.SyncOrdersToExternal(c.Request.Context(), opts))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// bindEntityRequest binds and converts an entity sync request. An empty body
// is valid and means "sync everything with defaults".
func (h *SyncHandler) bindEntityRequest(c *gin.Context) (dto.EntitySyncRequest, syncapp.EntitySyncOptions, bool) {
	var req dto.EntitySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return req, syncapp.EntitySyncOptions{}, false
	}

	if !h.service.StoreConfigured() {
		h.ErrorWithCode(c, dto.ErrCodeNotConfigured, "Store configuration missing")
		return req, syncapp.EntitySyncOptions{}, false
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid id: "+raw)
			return req, syncapp.EntitySyncOptions{}, false
		}
		ids = append(ids, id)
	}

	return req, syncapp.EntitySyncOptions{
		IDs:       ids,
		BatchSize: req.BatchSize,
		DryRun:    req.DryRun,
	}, true
}

// acquire takes the sync lock for a scope, replying 409 when it is held
func (h *SyncHandler) acquire(c *gin.Context, scope string) bool {
	if h.lock == nil {
		return true
	}
	ok, err := h.lock.Acquire(c.Request.Context(), scope)
	if err != nil {
		h.log.Error("acquiring sync lock failed", zap.String("scope", scope), zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "sync lock unavailable")
		return false
	}
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeSyncInProgress, "a sync run is already in progress")
		return false
	}
	return true
}

// release frees the sync lock for a scope
func (h *SyncHandler) release(c *gin.Context, scope string) {
	if h.lock == nil {
		return
	}
	if err := h.lock.Release(c.Request.Context(), scope); err != nil {
		h.log.Warn("releasing sync lock failed", zap.String("scope", scope), zap.Error(err))
	}
}

// respondResult writes a single-module sync result
func (h *SyncHandler) respondResult(c *gin.Context, result *integration.SyncResult) {
	h.Success(c, result)
}

// buildFullSyncResponse aggregates per-module results into the response shape
func buildFullSyncResponse(direction integration.SyncDirection, results map[integration.SyncModule]*integration.SyncResult) dto.FullSyncResponse {
	resp := dto.FullSyncResponse{
		Summary: dto.SyncSummary{
			Direction: string(direction),
			Modules:   make([]string, 0, len(results)),
		},
		Results: make(map[string]*integration.SyncResult, len(results)),
	}
	for _, module := range []integration.SyncModule{
		integration.ModuleCustomers,
		integration.ModuleProducts,
		integration.ModuleOrders,
	} {
		result, ok := results[module]
		if !ok {
			continue
		}
		resp.Summary.Modules = append(resp.Summary.Modules, string(module))
		resp.Summary.TotalSynced += result.Synced
		resp.Summary.TotalFailed += result.Failed
		resp.Results[string(module)] = result
	}
	return resp
}
