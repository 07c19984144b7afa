package integration

import (
	"context"
)

// ---------------------------------------------------------------------------
// External Value Objects
// ---------------------------------------------------------------------------

// ExternalContact represents a customer as the external CRM shapes it.
// Fields mirror the platform contact schema; optional fields left empty are
// omitted from the wire payload by the adapter.
type ExternalContact struct {
	// ContactID is the platform contact identifier (empty for new contacts)
	ContactID string
	// ContactName is the display name (required by the platform)
	ContactName string
	// CompanyName is the optional organization name
	CompanyName string
	// Email is the primary email address
	Email string
	// Phone is the primary phone number
	Phone string
	// Reference is the local customer code carried for reconciliation
	Reference string
}

// ExternalItem represents a product as the external ERP shapes it.
// Rate is a decimal string: the platform API rejects floats that lose
// precision, so prices cross the boundary as strings.
type ExternalItem struct {
	// ItemID is the platform item identifier (empty for new items)
	ItemID string
	// Name is the item display name (required by the platform)
	Name string
	// SKU is the stock keeping unit code
	SKU string
	// Description is the optional long description
	Description string
	// Rate is the selling price as a decimal string
	Rate string
	// StockOnHand is the available quantity as a decimal string
	StockOnHand string
	// Status is "active" or "inactive"
	Status string
}

// ExternalSalesOrder represents an order as the external ERP shapes it
type ExternalSalesOrder struct {
	// SalesOrderID is the platform sales order identifier (empty for new)
	SalesOrderID string
	// ReferenceNumber is the local order number
	ReferenceNumber string
	// ContactID is the linked platform contact, empty when the customer has
	// no linkage record
	ContactID string
	// Date is the order date in YYYY-MM-DD form
	Date string
	// Status is the platform order status
	Status string
	// Total is the order total as a decimal string
	Total string
	// LineItems are the order lines
	LineItems []ExternalLineItem
}

// ExternalLineItem represents one line on an external sales order
type ExternalLineItem struct {
	// ItemID is the linked platform item, empty when the product is unlinked
	ItemID string
	// Name is the line description
	Name string
	// SKU is the stock keeping unit code
	SKU string
	// Quantity is the ordered quantity as a decimal string
	Quantity string
	// Rate is the unit price as a decimal string
	Rate string
}

// ---------------------------------------------------------------------------
// ERPClient Port Interface
// ---------------------------------------------------------------------------

// ERPClient defines the port interface for the external ERP/CRM REST API.
// Implementations handle authentication, pagination and wire encoding; every
// method is a suspension point and honours the request context.
type ERPClient interface {
	// CreateContact creates a CRM contact and returns its platform ID
	CreateContact(ctx context.Context, contact ExternalContact) (string, error)

	// UpdateContact updates an existing CRM contact
	UpdateContact(ctx context.Context, contactID string, contact ExternalContact) error

	// CreateItem creates an ERP item and returns its platform ID
	CreateItem(ctx context.Context, item ExternalItem) (string, error)

	// UpdateItem updates an existing ERP item
	UpdateItem(ctx context.Context, itemID string, item ExternalItem) error

	// ListItems returns all ERP items, paging through the platform API
	ListItems(ctx context.Context) ([]ExternalItem, error)

	// CreateSalesOrder creates an ERP sales order and returns its platform ID
	CreateSalesOrder(ctx context.Context, order ExternalSalesOrder) (string, error)

	// UpdateSalesOrder updates an existing ERP sales order
	UpdateSalesOrder(ctx context.Context, salesOrderID string, order ExternalSalesOrder) error
}
