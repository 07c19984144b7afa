package erp

import "encoding/json"

// Wire DTOs for the Zoho REST API. Responses carry a code/message envelope;
// code 0 means success.

type zohoResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IsSuccess returns true if the platform accepted the request
func (r *zohoResponse) IsSuccess() bool {
	return r.Code == 0
}

// tokenResponse is the OAuth2 token endpoint response. Zoho reports grant
// failures with HTTP 200 and an error field, so both are checked.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	APIDomain    string `json:"api_domain"`
	Error        string `json:"error"`
}

type zohoContact struct {
	ContactID   string `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
}

type zohoContactResponse struct {
	zohoResponse
	Contact *zohoContact `json:"contact"`
}

// zohoItem uses json.Number for money and quantity so decimal strings cross
// the wire without float precision loss in either direction.
type zohoItem struct {
	ItemID      string      `json:"item_id,omitempty"`
	Name        string      `json:"name"`
	SKU         string      `json:"sku,omitempty"`
	Description string      `json:"description,omitempty"`
	Rate        json.Number `json:"rate,omitempty"`
	StockOnHand json.Number `json:"stock_on_hand,omitempty"`
	Status      string      `json:"status,omitempty"`
}

type zohoItemResponse struct {
	zohoResponse
	Item *zohoItem `json:"item"`
}

type zohoPageContext struct {
	Page        int  `json:"page"`
	PerPage     int  `json:"per_page"`
	HasMorePage bool `json:"has_more_page"`
}

type zohoItemListResponse struct {
	zohoResponse
	Items       []zohoItem       `json:"items"`
	PageContext *zohoPageContext `json:"page_context"`
}

type zohoLineItem struct {
	ItemID   string      `json:"item_id,omitempty"`
	Name     string      `json:"name,omitempty"`
	SKU      string      `json:"sku,omitempty"`
	Quantity json.Number `json:"quantity"`
	Rate     json.Number `json:"rate"`
}

type zohoSalesOrder struct {
	SalesOrderID    string         `json:"salesorder_id,omitempty"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	CustomerID      string         `json:"customer_id,omitempty"`
	Date            string         `json:"date,omitempty"`
	Status          string         `json:"status,omitempty"`
	Total           json.Number    `json:"total,omitempty"`
	LineItems       []zohoLineItem `json:"line_items,omitempty"`
}

type zohoSalesOrderResponse struct {
	zohoResponse
	SalesOrder *zohoSalesOrder `json:"salesorder"`
}
