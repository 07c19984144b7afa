package erp

import "errors"

// ZohoConfig holds configuration for the Zoho ERP/CRM integration.
// Credential values here are bootstrap seeds only; the persisted token store
// is authoritative once written.
type ZohoConfig struct {
	// ClientID is the OAuth2 client ID seed
	ClientID string
	// ClientSecret is the OAuth2 client secret seed
	ClientSecret string
	// RedirectURI is the OAuth2 redirect URI registered with the platform
	RedirectURI string
	// OrganizationID scopes every API call to one Zoho organization
	OrganizationID string
	// AccessToken is the initial access token seed (pre-refresh bootstrap)
	AccessToken string
	// RefreshToken is the initial refresh token seed
	RefreshToken string
	// AccountsBaseURL is the OAuth2 token endpoint host
	AccountsBaseURL string
	// APIBaseURL is the REST API base URL
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// PageSize is the page size used when listing platform entities
	PageSize int
}

const (
	// ZohoAccountsURL is the production OAuth2 accounts host
	ZohoAccountsURL = "https://accounts.zoho.com"
	// ZohoInventoryAPIURL is the production inventory API endpoint
	ZohoInventoryAPIURL = "https://www.zohoapis.com/inventory/v1"
)

// ErrZohoConfigMissingAPIBaseURL is returned when no API base URL resolves
var ErrZohoConfigMissingAPIBaseURL = errors.New("zoho: api base url is required")

// NewZohoConfig creates a Zoho configuration with production defaults
func NewZohoConfig(clientID, clientSecret, organizationID string) *ZohoConfig {
	return &ZohoConfig{
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		OrganizationID:  organizationID,
		AccountsBaseURL: ZohoAccountsURL,
		APIBaseURL:      ZohoInventoryAPIURL,
		TimeoutSeconds:  30,
		PageSize:        200,
	}
}

// Validate fills defaults and checks the configuration. Missing credentials
// are not an error here: the integration simply reports unconfigured until an
// operator writes them to the store.
func (c *ZohoConfig) Validate() error {
	if c.AccountsBaseURL == "" {
		c.AccountsBaseURL = ZohoAccountsURL
	}
	if c.APIBaseURL == "" {
		return ErrZohoConfigMissingAPIBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.PageSize <= 0 {
		c.PageSize = 200
	}
	return nil
}
