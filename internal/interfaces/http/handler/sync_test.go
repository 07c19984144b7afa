package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	syncapp "github.com/tecbunny/backend/internal/application/sync"
	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/partner"
	"github.com/tecbunny/backend/internal/infrastructure/persistence"
	"github.com/tecbunny/backend/internal/infrastructure/persistence/models"
	"github.com/tecbunny/backend/internal/interfaces/http/dto"
)

// stubERP is a canned ERP client for handler tests
type stubERP struct {
	contacts int
}

func (s *stubERP) CreateContact(_ context.Context, _ integration.ExternalContact) (string, error) {
	s.contacts++
	return "contact-1", nil
}

func (s *stubERP) UpdateContact(_ context.Context, _ string, _ integration.ExternalContact) error {
	return nil
}

func (s *stubERP) CreateItem(_ context.Context, _ integration.ExternalItem) (string, error) {
	return "item-1", nil
}

func (s *stubERP) UpdateItem(_ context.Context, _ string, _ integration.ExternalItem) error {
	return nil
}

func (s *stubERP) ListItems(_ context.Context) ([]integration.ExternalItem, error) {
	return nil, nil
}

func (s *stubERP) CreateSalesOrder(_ context.Context, _ integration.ExternalSalesOrder) (string, error) {
	return "so-1", nil
}

func (s *stubERP) UpdateSalesOrder(_ context.Context, _ string, _ integration.ExternalSalesOrder) error {
	return nil
}

// stubTokens always hands out one token
type stubTokens struct {
	configured bool
}

func (s *stubTokens) GetAccessToken(_ context.Context) (string, error) { return "tok", nil }
func (s *stubTokens) IsConfigured(_ context.Context) bool              { return s.configured }

// fakeLock simulates a held or free sync lock
type fakeLock struct {
	held     bool
	released []string
}

func (l *fakeLock) Acquire(_ context.Context, _ string) (bool, error) { return !l.held, nil }
func (l *fakeLock) Release(_ context.Context, scope string) error {
	l.released = append(l.released, scope)
	return nil
}

func registerSyncValidators(t *testing.T) {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	_ = v.RegisterValidation("syncdirection", func(fl validator.FieldLevel) bool {
		return integration.SyncDirection(fl.Field().String()).IsValid()
	})
}

// newStoreBackedService builds a Service over an in-memory store seeded with
// one customer
func newStoreBackedService(t *testing.T, erp integration.ERPClient) *syncapp.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CustomerModel{},
		&models.ProductModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderItemModel{},
	))

	customers := persistence.NewGormCustomerRepository(db)
	require.NoError(t, customers.Save(context.Background(), &partner.Customer{
		ID:        uuid.New(),
		Code:      "CUST001",
		Name:      "Ada Lovelace",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	return syncapp.NewService(
		customers,
		persistence.NewGormProductRepository(db),
		persistence.NewGormSalesOrderRepository(db),
		erp,
		&stubTokens{configured: true},
		syncapp.Config{BatchSize: 10},
		nil,
	)
}

func newSyncRouter(t *testing.T, service *syncapp.Service, lock SyncLock) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerSyncValidators(t)

	engine := gin.New()
	NewSyncHandler(service, lock, nil).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSyncHandlerStatus(t *testing.T) {
	service := newStoreBackedService(t, &stubERP{})
	engine := newSyncRouter(t, service, nil)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/sync/status", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["store_configured"])
	assert.Equal(t, true, data["integration_configured"])
}

func TestSyncHandlerFullSync(t *testing.T) {
	t.Run("an empty body runs all modules outbound", func(t *testing.T) {
		erp := &stubERP{}
		engine := newSyncRouter(t, newStoreBackedService(t, erp), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		summary, ok := data["summary"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "to_external", summary["direction"])
		assert.Equal(t, float64(1), summary["total_synced"])
		assert.Equal(t, float64(0), summary["total_failed"])

		results, ok := data["results"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, results, "customers")
		assert.Contains(t, results, "products")
		assert.Contains(t, results, "orders")
		assert.Equal(t, 1, erp.contacts)
	})

	t.Run("rejects an unknown direction", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full",
			map[string]any{"direction": "sideways"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an unknown module", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full",
			map[string]any{"modules": []string{"invoices"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("replies 503 when the store is not configured", func(t *testing.T) {
		service := syncapp.NewService(nil, nil, nil, &stubERP{}, &stubTokens{}, syncapp.Config{}, nil)
		engine := newSyncRouter(t, service, nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotConfigured, resp.Error.Code)
	})

	t.Run("replies 409 while a run is in progress", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), &fakeLock{held: true})

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeSyncInProgress, resp.Error.Code)
	})

	t.Run("releases the lock after a run", func(t *testing.T) {
		lock := &fakeLock{}
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), lock)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/full", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"full"}, lock.released)
	})
}

func TestSyncHandlerEntityRoutes(t *testing.T) {
	t.Run("customers sync succeeds and reports counts", func(t *testing.T) {
		erp := &stubERP{}
		engine := newSyncRouter(t, newStoreBackedService(t, erp), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/customers", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), data["synced"])
		assert.Equal(t, float64(0), data["failed"])
		assert.Equal(t, 1, erp.contacts)
	})

	t.Run("customers reject an inbound direction", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/customers",
			map[string]any{"direction": "from_external"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("orders reject an inbound direction", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/orders",
			map[string]any{"direction": "bidirectional"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("products accept an inbound direction", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/products",
			map[string]any{"direction": "from_external"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		engine := newSyncRouter(t, newStoreBackedService(t, &stubERP{}), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/products",
			map[string]any{"ids": []string{"123e4567-e89b-12d3-a456-426614174000", "123e4567"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("dry run leaves the platform untouched", func(t *testing.T) {
		erp := &stubERP{}
		engine := newSyncRouter(t, newStoreBackedService(t, erp), nil)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/sync/customers",
			map[string]any{"dry_run": true})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, erp.contacts)
	})
}
