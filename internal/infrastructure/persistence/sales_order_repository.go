package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tecbunny/backend/internal/domain/shared"
	"github.com/tecbunny/backend/internal/domain/trade"
	"github.com/tecbunny/backend/internal/infrastructure/persistence/models"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds an order (with items) by its ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all orders (with items) ordered oldest-first
func (r *GormSalesOrderRepository) FindAll(ctx context.Context) ([]trade.SalesOrder, error) {
	var orderModels []models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.SalesOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// FindByIDs returns the orders matching the given IDs, oldest-first.
// Missing IDs are silently skipped.
func (r *GormSalesOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]trade.SalesOrder, error) {
	if len(ids) == 0 {
		return []trade.SalesOrder{}, nil
	}

	var orderModels []models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.SalesOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates an order together with its items. Items are
// replaced wholesale so removed lines do not linger.
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	var model models.SalesOrderModel
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Omit("Items").
			Create(&model).Error; err != nil {
			return err
		}

		if err := tx.
			Where("order_id = ?", model.ID).
			Delete(&models.SalesOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// UpdateLinkage records the external platform ID and sync timestamp for an
// order without touching the rest of the row
func (r *GormSalesOrderRepository) UpdateLinkage(ctx context.Context, id uuid.UUID, externalID string, syncedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_id": externalID,
			"synced_at":   syncedAt,
			"updated_at":  syncedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSalesOrderRepository implements the repository port
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
