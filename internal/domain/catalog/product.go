package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tecbunny/backend/internal/domain/shared"
)

// Product represents a storefront catalog product.
// ExternalID links the product to its counterpart item in the external ERP;
// update-vs-create branching during outbound sync keys off its presence.
type Product struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       decimal.Decimal
	IsActive    bool
	ExternalID  string
	SyncedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a new product with a generated ID
func NewProduct(sku, name string, price decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product price cannot be negative")
	}
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		SKU:       strings.ToUpper(strings.TrimSpace(sku)),
		Name:      strings.TrimSpace(name),
		Price:     price,
		Stock:     decimal.Zero,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsLinked reports whether the product already has an ERP counterpart
func (p *Product) IsLinked() bool {
	return p.ExternalID != ""
}

// RecordLinkage records the external item ID after a successful sync
func (p *Product) RecordLinkage(externalID string, syncedAt time.Time) {
	if externalID != "" {
		p.ExternalID = externalID
	}
	p.SyncedAt = &syncedAt
	p.UpdatedAt = syncedAt
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns all products ordered oldest-first by creation time
	FindAll(ctx context.Context) ([]Product, error)

	// FindByIDs returns the products matching the given IDs, oldest-first
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByExternalID finds a product carrying the given external item ID.
	// Returns shared.ErrNotFound when no local row is linked to it.
	FindByExternalID(ctx context.Context, externalID string) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// UpdateLinkage persists the external ID and sync timestamp for a product
	UpdateLinkage(ctx context.Context, id uuid.UUID, externalID string, syncedAt time.Time) error
}
