package integration

import (
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// SyncDirection
// ---------------------------------------------------------------------------

// SyncDirection represents the direction of a synchronization pass
type SyncDirection string

const (
	// DirectionToExternal pushes local records to the external platform
	DirectionToExternal SyncDirection = "to_external"
	// DirectionFromExternal pulls external records into the local store
	DirectionFromExternal SyncDirection = "from_external"
	// DirectionBidirectional runs both passes in one invocation
	DirectionBidirectional SyncDirection = "bidirectional"
)

// IsValid returns true if the direction is valid
func (d SyncDirection) IsValid() bool {
	switch d {
	case DirectionToExternal, DirectionFromExternal, DirectionBidirectional:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncDirection
func (d SyncDirection) String() string {
	return string(d)
}

// Outbound reports whether the direction includes a local-to-external pass
func (d SyncDirection) Outbound() bool {
	return d == DirectionToExternal || d == DirectionBidirectional
}

// Inbound reports whether the direction includes an external-to-local pass
func (d SyncDirection) Inbound() bool {
	return d == DirectionFromExternal || d == DirectionBidirectional
}

// ---------------------------------------------------------------------------
// SyncModule
// ---------------------------------------------------------------------------

// SyncModule identifies an entity family handled by the sync engine
type SyncModule string

const (
	// ModuleCustomers syncs customer accounts to CRM contacts
	ModuleCustomers SyncModule = "customers"
	// ModuleProducts syncs catalog products with ERP items
	ModuleProducts SyncModule = "products"
	// ModuleOrders syncs placed orders to ERP sales orders
	ModuleOrders SyncModule = "orders"
	// ModuleCRM is an accepted alias for customers
	ModuleCRM SyncModule = "crm"
	// ModuleInventory is an accepted alias for products
	ModuleInventory SyncModule = "inventory"
)

// Normalize collapses module aliases onto their canonical family
func (m SyncModule) Normalize() SyncModule {
	switch m {
	case ModuleCRM:
		return ModuleCustomers
	case ModuleInventory:
		return ModuleProducts
	default:
		return m
	}
}

// IsValid returns true if the module (or alias) is known
func (m SyncModule) IsValid() bool {
	switch m.Normalize() {
	case ModuleCustomers, ModuleProducts, ModuleOrders:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncModule
func (m SyncModule) String() string {
	return string(m)
}

// NormalizeModules deduplicates and orders modules for a full sync pass.
// Customers always run before orders: an order's customer must be linked in
// the external CRM before the order itself is pushed.
func NormalizeModules(modules []SyncModule) []SyncModule {
	seen := make(map[SyncModule]bool, 3)
	for _, m := range modules {
		n := m.Normalize()
		if n.IsValid() {
			seen[n] = true
		}
	}
	if len(seen) == 0 {
		seen[ModuleCustomers] = true
		seen[ModuleProducts] = true
		seen[ModuleOrders] = true
	}

	ordered := make([]SyncModule, 0, len(seen))
	for _, m := range []SyncModule{ModuleCustomers, ModuleProducts, ModuleOrders} {
		if seen[m] {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

// ---------------------------------------------------------------------------
// Options and Results
// ---------------------------------------------------------------------------

// DefaultBatchSize is the batch size used when none is requested
const DefaultBatchSize = 25

// SyncOptions controls a full sync invocation
type SyncOptions struct {
	// Direction selects outbound, inbound or both passes
	Direction SyncDirection
	// Modules selects the entity families to sync; empty means all
	Modules []SyncModule
	// BatchSize overrides the configured batch size when positive
	BatchSize int
	// DryRun maps and branches but performs no external calls or writes
	DryRun bool
}

// ItemStatus is the per-item outcome status
type ItemStatus string

const (
	// ItemStatusSynced indicates the item was pushed or pulled successfully
	ItemStatusSynced ItemStatus = "synced"
	// ItemStatusError indicates the item failed and was skipped
	ItemStatusError ItemStatus = "error"
)

// ItemDetail records the outcome of a single item within a sync call
type ItemDetail struct {
	// LocalID is the local entity identifier
	LocalID uuid.UUID `json:"local_id"`
	// ExternalID is the counterpart identifier, when known
	ExternalID string `json:"external_id,omitempty"`
	// Status is "synced" or "error"
	Status ItemStatus `json:"status"`
	// Message carries the error or a non-fatal note
	Message string `json:"message,omitempty"`
}

// SyncResult aggregates the outcome of one sync operation.
// Success reflects the absence of a fatal (non-item-level) error only; a
// result may be successful with Failed > 0. Synced+Failed always equals the
// number of attempted items.
type SyncResult struct {
	Success bool         `json:"success"`
	Synced  int          `json:"synced"`
	Failed  int          `json:"failed"`
	Errors  []string     `json:"errors"`
	Details []ItemDetail `json:"details,omitempty"`
}

// NewSyncResult returns an empty successful result
func NewSyncResult() *SyncResult {
	return &SyncResult{
		Success: true,
		Errors:  make([]string, 0),
		Details: make([]ItemDetail, 0),
	}
}

// FatalSyncResult returns a zero-valued failed result carrying the given error
func FatalSyncResult(err error) *SyncResult {
	return &SyncResult{
		Success: false,
		Errors:  []string{err.Error()},
		Details: make([]ItemDetail, 0),
	}
}

// RecordSuccess appends a synced item outcome
func (r *SyncResult) RecordSuccess(localID uuid.UUID, externalID string) {
	r.Synced++
	r.Details = append(r.Details, ItemDetail{
		LocalID:    localID,
		ExternalID: externalID,
		Status:     ItemStatusSynced,
	})
}

// RecordFailure appends a failed item outcome
func (r *SyncResult) RecordFailure(localID uuid.UUID, message string) {
	r.Failed++
	r.Errors = append(r.Errors, message)
	r.Details = append(r.Details, ItemDetail{
		LocalID: localID,
		Status:  ItemStatusError,
		Message: message,
	})
}

// Merge folds another result into this one (used for bidirectional passes)
func (r *SyncResult) Merge(other *SyncResult) {
	if other == nil {
		return
	}
	r.Success = r.Success && other.Success
	r.Synced += other.Synced
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
	r.Details = append(r.Details, other.Details...)
}
