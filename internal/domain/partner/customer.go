package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tecbunny/backend/internal/domain/shared"
)

// Customer represents a storefront customer account.
// ExternalID carries the linkage to the counterpart CRM contact; it is empty
// until the first successful outbound sync and never cleared by the sync
// subsystem afterwards.
type Customer struct {
	ID         uuid.UUID
	Code       string
	Name       string
	Email      string
	Phone      string
	Company    string
	ExternalID string
	SyncedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewCustomer creates a new customer with a generated ID
func NewCustomer(code, name, email, phone string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	now := time.Now()
	return &Customer{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsLinked reports whether the customer already has a CRM counterpart
func (c *Customer) IsLinked() bool {
	return c.ExternalID != ""
}

// RecordLinkage records the external contact ID after a successful sync
func (c *Customer) RecordLinkage(externalID string, syncedAt time.Time) {
	if externalID != "" {
		c.ExternalID = externalID
	}
	c.SyncedAt = &syncedAt
	c.UpdatedAt = syncedAt
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll returns all customers ordered oldest-first by creation time
	FindAll(ctx context.Context) ([]Customer, error)

	// FindByIDs returns the customers matching the given IDs, oldest-first
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// UpdateLinkage persists the external ID and sync timestamp for a customer
	UpdateLinkage(ctx context.Context, id uuid.UUID, externalID string, syncedAt time.Time) error
}
