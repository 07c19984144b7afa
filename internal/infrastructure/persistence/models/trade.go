package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tecbunny/backend/internal/domain/trade"
)

// SalesOrderModel is the persistence model for the SalesOrder domain entity.
type SalesOrderModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key"`
	OrderNumber string                `gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Status      string                `gorm:"type:varchar(20);not null"`
	Currency    string                `gorm:"type:varchar(3);not null;default:'USD'"`
	TotalAmount decimal.Decimal       `gorm:"type:decimal(15,4);not null"`
	Items       []SalesOrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ExternalID  string                `gorm:"type:varchar(100);index:idx_sales_orders_external_id"`
	SyncedAt    *time.Time            `gorm:""`
	CreatedAt   time.Time             `gorm:"not null;index"`
	UpdatedAt   time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is the persistence model for a sales order line item.
type SalesOrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	SKU       string          `gorm:"type:varchar(100)"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(15,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrder entity.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	order := &trade.SalesOrder{
		ID:          m.ID,
		OrderNumber: m.OrderNumber,
		CustomerID:  m.CustomerID,
		Status:      trade.OrderStatus(m.Status),
		Currency:    m.Currency,
		TotalAmount: m.TotalAmount,
		Items:       make([]trade.SalesOrderItem, 0, len(m.Items)),
		ExternalID:  m.ExternalID,
		SyncedAt:    m.SyncedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, trade.SalesOrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}

// FromDomain populates the persistence model from a domain SalesOrder entity.
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.ID = o.ID
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Status = o.Status.String()
	m.Currency = o.Currency
	m.TotalAmount = o.TotalAmount
	m.ExternalID = o.ExternalID
	m.SyncedAt = o.SyncedAt
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	m.Items = make([]SalesOrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		m.Items = append(m.Items, SalesOrderItemModel{
			ID:        item.ID,
			OrderID:   o.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
}
