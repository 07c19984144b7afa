package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tecbunny/backend/internal/domain/integration"
)

// maxZohoResponseSize limits response bodies to prevent memory exhaustion
const maxZohoResponseSize = 10 * 1024 * 1024

// credentialSource supplies bearer tokens and the organization scope for API
// calls. TokenManager implements it; tests substitute a stub.
type credentialSource interface {
	integration.TokenProvider
	OrganizationID(ctx context.Context) (string, error)
}

// ZohoClient implements the ERPClient port against the Zoho REST API.
// Every call resolves a bearer token through the credential source and scopes
// the request with the organization_id query parameter.
type ZohoClient struct {
	cfg        *ZohoConfig
	creds      credentialSource
	httpClient *http.Client
	log        *zap.Logger
}

// NewZohoClient creates a Zoho API client
func NewZohoClient(cfg *ZohoConfig, creds credentialSource, log *zap.Logger) (*ZohoClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ZohoClient{
		cfg:   cfg,
		creds: creds,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log,
	}, nil
}

// ---------------------------------------------------------------------------
// Contact Operations
// ---------------------------------------------------------------------------

// CreateContact creates a CRM contact and returns its platform ID
func (c *ZohoClient) CreateContact(ctx context.Context, contact integration.ExternalContact) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/contacts", nil, contactToWire(contact))
	if err != nil {
		return "", err
	}

	var resp zohoContactResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if !resp.IsSuccess() || resp.Contact == nil {
		return "", fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
	}
	return resp.Contact.ContactID, nil
}

// UpdateContact updates an existing CRM contact
func (c *ZohoClient) UpdateContact(ctx context.Context, contactID string, contact integration.ExternalContact) error {
	body, err := c.doRequest(ctx, http.MethodPut, "/contacts/"+contactID, nil, contactToWire(contact))
	if err != nil {
		return err
	}
	return checkEnvelope(body)
}

// ---------------------------------------------------------------------------
// Item Operations
// ---------------------------------------------------------------------------

// CreateItem creates an ERP item and returns its platform ID
func (c *ZohoClient) CreateItem(ctx context.Context, item integration.ExternalItem) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/items", nil, itemToWire(item))
	if err != nil {
		return "", err
	}

	var resp zohoItemResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if !resp.IsSuccess() || resp.Item == nil {
		return "", fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
	}
	return resp.Item.ItemID, nil
}

// UpdateItem updates an existing ERP item
func (c *ZohoClient) UpdateItem(ctx context.Context, itemID string, item integration.ExternalItem) error {
	body, err := c.doRequest(ctx, http.MethodPut, "/items/"+itemID, nil, itemToWire(item))
	if err != nil {
		return err
	}
	return checkEnvelope(body)
}

// ListItems returns all ERP items, paging through the platform API
func (c *ZohoClient) ListItems(ctx context.Context) ([]integration.ExternalItem, error) {
	items := make([]integration.ExternalItem, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(c.cfg.PageSize))

		body, err := c.doRequest(ctx, http.MethodGet, "/items", query, nil)
		if err != nil {
			return nil, err
		}

		var resp zohoItemListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
		}

		for _, item := range resp.Items {
			items = append(items, itemFromWire(item))
		}

		if resp.PageContext == nil || !resp.PageContext.HasMorePage {
			return items, nil
		}
	}
}

// ---------------------------------------------------------------------------
// Sales Order Operations
// ---------------------------------------------------------------------------

// CreateSalesOrder creates an ERP sales order and returns its platform ID
func (c *ZohoClient) CreateSalesOrder(ctx context.Context, order integration.ExternalSalesOrder) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/salesorders", nil, salesOrderToWire(order))
	if err != nil {
		return "", err
	}

	var resp zohoSalesOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if !resp.IsSuccess() || resp.SalesOrder == nil {
		return "", fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
	}
	return resp.SalesOrder.SalesOrderID, nil
}

// UpdateSalesOrder updates an existing ERP sales order
func (c *ZohoClient) UpdateSalesOrder(ctx context.Context, salesOrderID string, order integration.ExternalSalesOrder) error {
	body, err := c.doRequest(ctx, http.MethodPut, "/salesorders/"+salesOrderID, nil, salesOrderToWire(order))
	if err != nil {
		return err
	}
	return checkEnvelope(body)
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an authenticated HTTP request against the Zoho API
func (c *ZohoClient) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	token, err := c.creds.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	org, err := c.creds.OrganizationID(ctx)
	if err != nil {
		return nil, err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("organization_id", org)
	requestURL := c.cfg.APIBaseURL + path + "?" + query.Encode()

	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("zoho: marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("zoho: building request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxZohoResponseSize))
	if err != nil {
		return nil, fmt.Errorf("zoho: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, integration.ErrPlatformRateLimited
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: HTTP 401", integration.ErrTokenExpired)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// checkEnvelope validates the code/message envelope of a mutation response
func checkEnvelope(body []byte) error {
	var resp zohoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, resp.Code, resp.Message)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Wire Conversion
// ---------------------------------------------------------------------------

func contactToWire(contact integration.ExternalContact) *zohoContact {
	return &zohoContact{
		ContactName: contact.ContactName,
		CompanyName: contact.CompanyName,
		Email:       contact.Email,
		Phone:       contact.Phone,
		ReferenceID: contact.Reference,
	}
}

func itemToWire(item integration.ExternalItem) *zohoItem {
	return &zohoItem{
		Name:        item.Name,
		SKU:         item.SKU,
		Description: item.Description,
		Rate:        json.Number(item.Rate),
		StockOnHand: json.Number(item.StockOnHand),
		Status:      item.Status,
	}
}

func itemFromWire(item zohoItem) integration.ExternalItem {
	return integration.ExternalItem{
		ItemID:      item.ItemID,
		Name:        item.Name,
		SKU:         item.SKU,
		Description: item.Description,
		Rate:        item.Rate.String(),
		StockOnHand: item.StockOnHand.String(),
		Status:      item.Status,
	}
}

func salesOrderToWire(order integration.ExternalSalesOrder) *zohoSalesOrder {
	lines := make([]zohoLineItem, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		lines = append(lines, zohoLineItem{
			ItemID:   line.ItemID,
			Name:     line.Name,
			SKU:      line.SKU,
			Quantity: json.Number(line.Quantity),
			Rate:     json.Number(line.Rate),
		})
	}
	return &zohoSalesOrder{
		ReferenceNumber: order.ReferenceNumber,
		CustomerID:      order.ContactID,
		Date:            order.Date,
		Status:          order.Status,
		Total:           json.Number(order.Total),
		LineItems:       lines,
	}
}

// Ensure ZohoClient implements the ERPClient port
var _ integration.ERPClient = (*ZohoClient)(nil)
