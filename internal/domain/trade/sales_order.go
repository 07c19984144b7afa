package trade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tecbunny/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of a sales order
type OrderStatus string

const (
	// OrderStatusPending indicates the order awaits payment
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid indicates payment has been received
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusShipped indicates the order has been shipped
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusCompleted indicates the order is complete
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled indicates the order was cancelled
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// SalesOrder represents a placed storefront order.
// ExternalID links the order to its counterpart sales order in the external
// ERP once pushed.
type SalesOrder struct {
	ID          uuid.UUID
	OrderNumber string
	CustomerID  uuid.UUID
	Status      OrderStatus
	Currency    string
	TotalAmount decimal.Decimal
	Items       []SalesOrderItem
	ExternalID  string
	SyncedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SalesOrderItem represents a line item on a sales order
type SalesOrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	SKU       string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// NewSalesOrder creates a new sales order with a generated ID
func NewSalesOrder(orderNumber string, customerID uuid.UUID) (*SalesOrder, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order customer is required")
	}
	now := time.Now()
	return &SalesOrder{
		ID:          uuid.New(),
		OrderNumber: strings.TrimSpace(orderNumber),
		CustomerID:  customerID,
		Status:      OrderStatusPending,
		Currency:    "USD",
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddItem appends a line item and updates the order total
func (o *SalesOrder) AddItem(productID uuid.UUID, sku, name string, quantity, unitPrice decimal.Decimal) {
	o.Items = append(o.Items, SalesOrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ProductID: productID,
		SKU:       sku,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	o.TotalAmount = o.TotalAmount.Add(quantity.Mul(unitPrice))
}

// IsLinked reports whether the order already has an ERP counterpart
func (o *SalesOrder) IsLinked() bool {
	return o.ExternalID != ""
}

// RecordLinkage records the external sales order ID after a successful sync
func (o *SalesOrder) RecordLinkage(externalID string, syncedAt time.Time) {
	if externalID != "" {
		o.ExternalID = externalID
	}
	o.SyncedAt = &syncedAt
	o.UpdatedAt = syncedAt
}

// SalesOrderRepository defines persistence operations for sales orders
type SalesOrderRepository interface {
	// FindByID finds an order (with items) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindAll returns all orders (with items) ordered oldest-first
	FindAll(ctx context.Context) ([]SalesOrder, error)

	// FindByIDs returns the orders matching the given IDs, oldest-first
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SalesOrder, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *SalesOrder) error

	// UpdateLinkage persists the external ID and sync timestamp for an order
	UpdateLinkage(ctx context.Context, id uuid.UUID, externalID string, syncedAt time.Time) error
}
