package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecbunny/backend/internal/domain/catalog"
	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/partner"
	"github.com/tecbunny/backend/internal/domain/shared"
	"github.com/tecbunny/backend/internal/domain/trade"
)

// Config holds orchestrator pacing settings
type Config struct {
	// BatchSize is the default chunk size for batch processing
	BatchSize int
	// BatchDelay is the pause between chunks
	BatchDelay time.Duration
}

// EntitySyncOptions controls a single per-entity sync operation
type EntitySyncOptions struct {
	// IDs restricts the candidate set to an explicit list; empty means all
	IDs []uuid.UUID
	// BatchSize overrides the configured chunk size when positive
	BatchSize int
	// DryRun maps and branches but performs no external calls or writes
	DryRun bool
}

// Service coordinates synchronization between the local store and the
// external ERP/CRM platform. Every top-level operation returns a SyncResult,
// never an error: per-item failures are recovered and reported in aggregate,
// and only precondition or enumeration failures mark the result as failed.
//
// The service provides no mutual exclusion between concurrent invocations of
// the same module; callers serialize them (the HTTP layer holds a Redis
// single-flight lock around full syncs).
type Service struct {
	customers partner.CustomerRepository
	products  catalog.ProductRepository
	orders    trade.SalesOrderRepository
	client    integration.ERPClient
	tokens    integration.TokenProvider
	cfg       Config
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a sync service. Repositories may be nil when the backing
// store is not configured; operations then fast-fail with a store
// configuration error instead of crashing.
func NewService(
	customers partner.CustomerRepository,
	products catalog.ProductRepository,
	orders trade.SalesOrderRepository,
	client integration.ERPClient,
	tokens integration.TokenProvider,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = integration.DefaultBatchSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		client:    client,
		tokens:    tokens,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// StoreConfigured reports whether the backing local store is available
func (s *Service) StoreConfigured() bool {
	return s.customers != nil && s.products != nil && s.orders != nil
}

// IntegrationConfigured reports whether the external platform credentials
// resolve to a usable state
func (s *Service) IntegrationConfigured(ctx context.Context) bool {
	return s.tokens != nil && s.tokens.IsConfigured(ctx)
}

// ---------------------------------------------------------------------------
// Customers (outbound)
// ---------------------------------------------------------------------------

// SyncCustomersToExternal pushes local customers to the external CRM.
// Customers with a linkage record are updated, the rest are created and the
// returned contact ID is written back as the linkage.
func (s *Service) SyncCustomersToExternal(ctx context.Context, opts EntitySyncOptions) *integration.SyncResult {
	if !s.StoreConfigured() {
		return integration.FatalSyncResult(integration.ErrStoreNotConfigured)
	}

	customers, err := s.loadCustomers(ctx, opts.IDs)
	if err != nil {
		s.log.Error("enumerating customers for sync failed", zap.Error(err))
		return integration.FatalSyncResult(fmt.Errorf("enumerating customers: %w", err))
	}
	if len(customers) == 0 {
		return integration.NewSyncResult()
	}

	if !opts.DryRun {
		if _, err := s.tokens.GetAccessToken(ctx); err != nil {
			return s.failAllCustomers(customers)
		}
	}

	return ProcessInBatches(ctx, customers, s.batchOptions(opts.BatchSize),
		func(ctx context.Context, c partner.Customer) (integration.ItemDetail, error) {
			detail := integration.ItemDetail{LocalID: c.ID}

			contact, err := CustomerToContact(&c)
			if err != nil {
				return detail, fmt.Errorf("customer %s: %w", c.ID, err)
			}

			if opts.DryRun {
				detail.ExternalID = c.ExternalID
				detail.Message = "dry run"
				return detail, nil
			}

			externalID, err := s.pushContact(ctx, &c, contact)
			if err != nil {
				return detail, fmt.Errorf("customer %s: %w", c.ID, err)
			}
			detail.ExternalID = externalID

			if err := s.customers.UpdateLinkage(ctx, c.ID, externalID, s.now()); err != nil {
				return detail, fmt.Errorf("customer %s: recording linkage: %w", c.ID, err)
			}
			return detail, nil
		})
}

// pushContact branches on linkage presence: update when the customer already
// has a contact ID, create otherwise. Returns the external contact ID.
func (s *Service) pushContact(ctx context.Context, c *partner.Customer, contact integration.ExternalContact) (string, error) {
	if c.IsLinked() {
		if err := s.client.UpdateContact(ctx, c.ExternalID, contact); err != nil {
			return "", err
		}
		return c.ExternalID, nil
	}
	return s.client.CreateContact(ctx, contact)
}

// syncSingleCustomer performs a one-off dependent customer sync ahead of an
// order push so the order can reference a linked contact
func (s *Service) syncSingleCustomer(ctx context.Context, c *partner.Customer) error {
	contact, err := CustomerToContact(c)
	if err != nil {
		return err
	}
	externalID, err := s.pushContact(ctx, c, contact)
	if err != nil {
		return err
	}
	syncedAt := s.now()
	if err := s.customers.UpdateLinkage(ctx, c.ID, externalID, syncedAt); err != nil {
		return err
	}
	c.RecordLinkage(externalID, syncedAt)
	return nil
}

// ---------------------------------------------------------------------------
// Products (outbound and inbound)
// ---------------------------------------------------------------------------

// SyncProductsToExternal pushes local products to the external ERP
func (s *Service) SyncProductsToExternal(ctx context.Context, opts EntitySyncOptions) *integration.SyncResult {
	if !s.StoreConfigured() {
		return integration.FatalSyncResult(integration.ErrStoreNotConfigured)
	}

	products, err := s.loadProducts(ctx, opts.IDs)
	if err != nil {
		s.log.Error("enumerating products for sync failed", zap.Error(err))
		return integration.FatalSyncResult(fmt.Errorf("enumerating products: %w", err))
	}
	if len(products) == 0 {
		return integration.NewSyncResult()
	}

	if !opts.DryRun {
		if _, err := s.tokens.GetAccessToken(ctx); err != nil {
			result := integration.NewSyncResult()
			for _, p := range products {
				result.RecordFailure(p.ID, fmt.Sprintf("product %s: %s", p.ID, integration.ErrTokenUnavailable))
			}
			return result
		}
	}

	return ProcessInBatches(ctx, products, s.batchOptions(opts.BatchSize),
		func(ctx context.Context, p catalog.Product) (integration.ItemDetail, error) {
			detail := integration.ItemDetail{LocalID: p.ID}

			item, err := ProductToItem(&p)
			if err != nil {
				return detail, fmt.Errorf("product %s: %w", p.ID, err)
			}

			if opts.DryRun {
				detail.ExternalID = p.ExternalID
				detail.Message = "dry run"
				return detail, nil
			}

			externalID := p.ExternalID
			if p.IsLinked() {
				if err := s.client.UpdateItem(ctx, p.ExternalID, item); err != nil {
					return detail, fmt.Errorf("product %s: %w", p.ID, err)
				}
			} else {
				externalID, err = s.client.CreateItem(ctx, item)
				if err != nil {
					return detail, fmt.Errorf("product %s: %w", p.ID, err)
				}
			}
			detail.ExternalID = externalID

			if err := s.products.UpdateLinkage(ctx, p.ID, externalID, s.now()); err != nil {
				return detail, fmt.Errorf("product %s: recording linkage: %w", p.ID, err)
			}
			return detail, nil
		})
}

// SyncProductsFromExternal pulls all items from the external ERP and upserts
// them into the local catalog keyed by external item ID, so repeated runs
// never duplicate local rows.
func (s *Service) SyncProductsFromExternal(ctx context.Context, opts EntitySyncOptions) *integration.SyncResult {
	if !s.StoreConfigured() {
		return integration.FatalSyncResult(integration.ErrStoreNotConfigured)
	}

	// Listing is this pass's enumeration step: an auth or platform failure
	// here is fatal for the call, unlike per-item failures below.
	items, err := s.client.ListItems(ctx)
	if err != nil {
		s.log.Warn("listing external items failed", zap.Error(err))
		return integration.FatalSyncResult(fmt.Errorf("listing external items: %w", err))
	}
	if len(items) == 0 {
		return integration.NewSyncResult()
	}

	return ProcessInBatches(ctx, items, s.batchOptions(opts.BatchSize),
		func(ctx context.Context, item integration.ExternalItem) (integration.ItemDetail, error) {
			detail := integration.ItemDetail{ExternalID: item.ItemID}

			product, err := s.products.FindByExternalID(ctx, item.ItemID)
			switch {
			case err == nil:
				// Existing linked row: last write wins
			case errors.Is(err, shared.ErrNotFound):
				product = &catalog.Product{ID: uuid.New(), CreatedAt: s.now()}
			default:
				return detail, fmt.Errorf("item %s: looking up product: %w", item.ItemID, err)
			}
			detail.LocalID = product.ID

			if err := ApplyItem(product, item); err != nil {
				return detail, err
			}

			if opts.DryRun {
				detail.Message = "dry run"
				return detail, nil
			}

			syncedAt := s.now()
			product.SyncedAt = &syncedAt
			product.UpdatedAt = syncedAt
			if err := s.products.Save(ctx, product); err != nil {
				return detail, fmt.Errorf("item %s: saving product: %w", item.ItemID, err)
			}
			return detail, nil
		})
}

// SyncProducts runs the product passes selected by direction; bidirectional
// merges outbound and inbound counts and error lists.
func (s *Service) SyncProducts(ctx context.Context, direction integration.SyncDirection, opts EntitySyncOptions) *integration.SyncResult {
	if !direction.IsValid() {
		return integration.FatalSyncResult(integration.ErrInvalidDirection)
	}

	result := integration.NewSyncResult()
	if direction.Outbound() {
		result.Merge(s.SyncProductsToExternal(ctx, opts))
	}
	if direction.Inbound() {
		result.Merge(s.SyncProductsFromExternal(ctx, opts))
	}
	return result
}

// ---------------------------------------------------------------------------
// Orders (outbound)
// ---------------------------------------------------------------------------

// SyncOrdersToExternal pushes local orders to the external ERP. Before an
// order is pushed its customer linkage is ensured with a one-off customer
// sync; if that dependent sync fails the order is still pushed without a
// linked contact reference and the detail notes it.
func (s *Service) SyncOrdersToExternal(ctx context.Context, opts EntitySyncOptions) *integration.SyncResult {
	if !s.StoreConfigured() {
		return integration.FatalSyncResult(integration.ErrStoreNotConfigured)
	}

	orders, err := s.loadOrders(ctx, opts.IDs)
	if err != nil {
		s.log.Error("enumerating orders for sync failed", zap.Error(err))
		return integration.FatalSyncResult(fmt.Errorf("enumerating orders: %w", err))
	}
	if len(orders) == 0 {
		return integration.NewSyncResult()
	}

	if !opts.DryRun {
		if _, err := s.tokens.GetAccessToken(ctx); err != nil {
			result := integration.NewSyncResult()
			for _, o := range orders {
				result.RecordFailure(o.ID, fmt.Sprintf("order %s: %s", o.OrderNumber, integration.ErrTokenUnavailable))
			}
			return result
		}
	}

	return ProcessInBatches(ctx, orders, s.batchOptions(opts.BatchSize),
		func(ctx context.Context, o trade.SalesOrder) (integration.ItemDetail, error) {
			detail := integration.ItemDetail{LocalID: o.ID}

			contactID, note := s.ensureCustomerLinkage(ctx, &o, opts.DryRun)
			detail.Message = note

			payload, err := OrderToSalesOrder(&o, contactID)
			if err != nil {
				return detail, fmt.Errorf("order %s: %w", o.OrderNumber, err)
			}

			if opts.DryRun {
				detail.ExternalID = o.ExternalID
				detail.Message = joinNotes("dry run", note)
				return detail, nil
			}

			externalID := o.ExternalID
			if o.IsLinked() {
				if err := s.client.UpdateSalesOrder(ctx, o.ExternalID, payload); err != nil {
					return detail, fmt.Errorf("order %s: %w", o.OrderNumber, err)
				}
			} else {
				externalID, err = s.client.CreateSalesOrder(ctx, payload)
				if err != nil {
					return detail, fmt.Errorf("order %s: %w", o.OrderNumber, err)
				}
			}
			detail.ExternalID = externalID

			if err := s.orders.UpdateLinkage(ctx, o.ID, externalID, s.now()); err != nil {
				return detail, fmt.Errorf("order %s: recording linkage: %w", o.OrderNumber, err)
			}
			return detail, nil
		})
}

// ensureCustomerLinkage resolves the order's external contact ID, running a
// one-off customer sync when the linkage is absent. Failures are non-fatal:
// the order proceeds without a contact reference and the note records why.
func (s *Service) ensureCustomerLinkage(ctx context.Context, o *trade.SalesOrder, dryRun bool) (contactID, note string) {
	customer, err := s.customers.FindByID(ctx, o.CustomerID)
	if err != nil {
		s.log.Warn("order customer lookup failed",
			zap.String("order", o.OrderNumber),
			zap.Error(err))
		return "", "customer lookup failed; order pushed without linked contact"
	}

	if customer.IsLinked() {
		return customer.ExternalID, ""
	}
	if dryRun {
		return "", "customer not linked"
	}

	if err := s.syncSingleCustomer(ctx, customer); err != nil {
		s.log.Warn("dependent customer sync failed",
			zap.String("order", o.OrderNumber),
			zap.String("customer", customer.ID.String()),
			zap.Error(err))
		return "", "customer sync failed; order pushed without linked contact"
	}
	return customer.ExternalID, ""
}

// ---------------------------------------------------------------------------
// Full Sync
// ---------------------------------------------------------------------------

// FullSync runs the selected modules sequentially and returns a per-module
// result map. Modules are independent: one module's failure never prevents
// the next from running, and customers always run before orders. There is no
// single overall success flag; callers evaluate success per module.
func (s *Service) FullSync(ctx context.Context, opts integration.SyncOptions) map[integration.SyncModule]*integration.SyncResult {
	direction := opts.Direction
	if direction == "" {
		direction = integration.DirectionToExternal
	}

	entityOpts := EntitySyncOptions{BatchSize: opts.BatchSize, DryRun: opts.DryRun}
	results := make(map[integration.SyncModule]*integration.SyncResult)

	for _, module := range integration.NormalizeModules(opts.Modules) {
		start := s.now()
		var result *integration.SyncResult

		switch module {
		case integration.ModuleCustomers:
			// Customers only flow outbound
			if direction.Outbound() {
				result = s.SyncCustomersToExternal(ctx, entityOpts)
			} else {
				result = integration.NewSyncResult()
			}
		case integration.ModuleProducts:
			result = s.SyncProducts(ctx, direction, entityOpts)
		case integration.ModuleOrders:
			// Orders only flow outbound
			if direction.Outbound() {
				result = s.SyncOrdersToExternal(ctx, entityOpts)
			} else {
				result = integration.NewSyncResult()
			}
		default:
			result = integration.FatalSyncResult(integration.ErrUnknownModule)
		}

		results[module] = result
		s.log.Info("sync module finished",
			zap.String("module", module.String()),
			zap.String("direction", direction.String()),
			zap.Int("synced", result.Synced),
			zap.Int("failed", result.Failed),
			zap.Bool("success", result.Success),
			zap.Duration("elapsed", s.now().Sub(start)))
	}

	return results
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Service) batchOptions(override int) BatchOptions {
	size := s.cfg.BatchSize
	if override > 0 {
		size = override
	}
	return BatchOptions{BatchSize: size, Delay: s.cfg.BatchDelay}
}

func (s *Service) loadCustomers(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) > 0 {
		return s.customers.FindByIDs(ctx, ids)
	}
	return s.customers.FindAll(ctx)
}

func (s *Service) loadProducts(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) > 0 {
		return s.products.FindByIDs(ctx, ids)
	}
	return s.products.FindAll(ctx)
}

func (s *Service) loadOrders(ctx context.Context, ids []uuid.UUID) ([]trade.SalesOrder, error) {
	if len(ids) > 0 {
		return s.orders.FindByIDs(ctx, ids)
	}
	return s.orders.FindAll(ctx)
}

func (s *Service) failAllCustomers(customers []partner.Customer) *integration.SyncResult {
	result := integration.NewSyncResult()
	for _, c := range customers {
		result.RecordFailure(c.ID, fmt.Sprintf("customer %s: %s", c.ID, integration.ErrTokenUnavailable))
	}
	return result
}

func joinNotes(a, b string) string {
	if b == "" {
		return a
	}
	return a + "; " + b
}
