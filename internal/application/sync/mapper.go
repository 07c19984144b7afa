package sync

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tecbunny/backend/internal/domain/catalog"
	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/partner"
	"github.com/tecbunny/backend/internal/domain/trade"
)

// Entity mapping between local shapes and the external platform shapes.
// All functions here are pure: deterministic, side-effect free and total over
// well-formed local entities. Unmapped optional fields are omitted, never an
// error; inbound mapping substitutes defined defaults for missing optional
// fields so the same external entity always maps to the same local payload.

// CustomerToContact maps a local customer to the external contact shape
func CustomerToContact(c *partner.Customer) (integration.ExternalContact, error) {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return integration.ExternalContact{}, fmt.Errorf("%w: customer name is required", integration.ErrMappingFailed)
	}
	return integration.ExternalContact{
		ContactID:   c.ExternalID,
		ContactName: c.Name,
		CompanyName: c.Company,
		Email:       c.Email,
		Phone:       c.Phone,
		Reference:   c.Code,
	}, nil
}

// ProductToItem maps a local product to the external item shape.
// Price and stock cross the boundary as decimal strings.
func ProductToItem(p *catalog.Product) (integration.ExternalItem, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return integration.ExternalItem{}, fmt.Errorf("%w: product name is required", integration.ErrMappingFailed)
	}
	status := "inactive"
	if p.IsActive {
		status = "active"
	}
	return integration.ExternalItem{
		ItemID:      p.ExternalID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Rate:        p.Price.String(),
		StockOnHand: p.Stock.String(),
		Status:      status,
	}, nil
}

// ApplyItem applies an external item onto a local product for inbound sync.
// Missing optional fields fall back to defined defaults (zero price, zero
// stock, active status); mapping the same item twice is a no-op.
func ApplyItem(p *catalog.Product, item integration.ExternalItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item %s has no name", integration.ErrMappingFailed, item.ItemID)
	}

	price, err := parseDecimal(item.Rate)
	if err != nil {
		return fmt.Errorf("%w: item %s rate %q: %v", integration.ErrMappingFailed, item.ItemID, item.Rate, err)
	}
	stock, err := parseDecimal(item.StockOnHand)
	if err != nil {
		return fmt.Errorf("%w: item %s stock %q: %v", integration.ErrMappingFailed, item.ItemID, item.StockOnHand, err)
	}

	p.Name = item.Name
	if item.SKU != "" {
		p.SKU = strings.ToUpper(item.SKU)
	}
	p.Description = item.Description
	p.Price = price
	p.Stock = stock
	p.IsActive = item.Status != "inactive"
	p.ExternalID = item.ItemID
	return nil
}

// OrderToSalesOrder maps a local order to the external sales order shape.
// contactID is the linked external contact, empty when the order's customer
// has no linkage record; the order is still pushed without a contact ref.
func OrderToSalesOrder(o *trade.SalesOrder, contactID string) (integration.ExternalSalesOrder, error) {
	if o == nil || strings.TrimSpace(o.OrderNumber) == "" {
		return integration.ExternalSalesOrder{}, fmt.Errorf("%w: order number is required", integration.ErrMappingFailed)
	}
	if len(o.Items) == 0 {
		return integration.ExternalSalesOrder{}, fmt.Errorf("%w: order %s has no line items", integration.ErrMappingFailed, o.OrderNumber)
	}

	lines := make([]integration.ExternalLineItem, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, integration.ExternalLineItem{
			Name:     item.Name,
			SKU:      item.SKU,
			Quantity: item.Quantity.String(),
			Rate:     item.UnitPrice.String(),
		})
	}

	return integration.ExternalSalesOrder{
		SalesOrderID:    o.ExternalID,
		ReferenceNumber: o.OrderNumber,
		ContactID:       contactID,
		Date:            o.CreatedAt.Format("2006-01-02"),
		Status:          strings.ToLower(o.Status.String()),
		Total:           o.TotalAmount.String(),
		LineItems:       lines,
	}, nil
}

// parseDecimal parses a decimal string, treating absence as zero
func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
