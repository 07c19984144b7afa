package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Token Lifecycle Types
// ---------------------------------------------------------------------------

// Setting keys for the persisted key/value credential store
const (
	// SettingAccessToken holds the current OAuth2 access token
	SettingAccessToken = "access_token"
	// SettingRefreshToken holds the current OAuth2 refresh token
	SettingRefreshToken = "refresh_token"
	// SettingClientID holds the OAuth2 client ID
	SettingClientID = "client_id"
	// SettingClientSecret holds the OAuth2 client secret
	SettingClientSecret = "client_secret"
	// SettingOrganizationID holds the platform organization identifier
	SettingOrganizationID = "organization_id"
)

// TokenRecord is the current access/refresh token pair with its expiry.
// The access token is valid while ExpiresAt lies in the future; a record
// without a refresh token cannot self-heal once expired.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Valid reports whether the access token is usable at the given instant
func (t *TokenRecord) Valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt)
}

// CredentialConfig is the OAuth2 client credential set, loaded once per
// process and mutated only through an explicit store write.
type CredentialConfig struct {
	ClientID       string
	ClientSecret   string
	OrganizationID string
}

// Complete reports whether all credential fields are present
func (c CredentialConfig) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.OrganizationID != ""
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// TokenStore is the persisted key/value store for OAuth2 credentials and the
// current token pair. ExpiresAt is consulted only for the access token row.
type TokenStore interface {
	// Get returns the value and optional expiry for a key.
	// Returns shared.ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) (value string, expiresAt *time.Time, err error)

	// Set upserts a key with an optional expiry
	Set(ctx context.Context, key, value string, expiresAt *time.Time) error
}

// TokenProvider supplies valid bearer tokens to the ERP client and the
// orchestrator. A failed refresh surfaces as ErrTokenUnavailable, never as a
// panic or an unexpected error type: a missing token is an expected operating
// condition.
type TokenProvider interface {
	// GetAccessToken returns a cached valid token or attempts a single
	// refresh. Returns ErrTokenUnavailable when no usable token exists.
	GetAccessToken(ctx context.Context) (string, error)

	// IsConfigured reports whether client credentials, an organization ID
	// and a retrievable access token are all present
	IsConfigured(ctx context.Context) bool
}
