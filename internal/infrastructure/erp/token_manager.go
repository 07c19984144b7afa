package erp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/shared"
)

// maxTokenResponseSize limits the token endpoint response body size
const maxTokenResponseSize = 1 << 20

// TokenManager owns the OAuth2 token lifecycle for the Zoho integration:
// caching, expiry detection, refresh-token exchange and persistence.
//
// A missing or rejected token is an expected operating condition (the
// integration may simply not be configured yet), so failures surface as
// integration.ErrTokenUnavailable instead of crashing callers. The in-memory
// cache is written only after the store write succeeds, so the cache never
// holds a token the store does not.
type TokenManager struct {
	store      integration.TokenStore
	cfg        *ZohoConfig
	httpClient *http.Client
	log        *zap.Logger

	mu     sync.RWMutex
	cached *integration.TokenRecord

	now func() time.Time
}

// NewTokenManager creates a token manager backed by the given store
func NewTokenManager(store integration.TokenStore, cfg *ZohoConfig, log *zap.Logger) (*TokenManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenManager{
		store: store,
		cfg:   cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log,
		now: time.Now,
	}, nil
}

// GetAccessToken returns a cached token while it is valid, otherwise loads
// the stored token or attempts a single refresh. A second call within the
// validity window makes no network calls.
func (m *TokenManager) GetAccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	cached := m.cached
	m.mu.RUnlock()
	if cached.Valid(m.now()) {
		return cached.AccessToken, nil
	}

	// Cache miss or expiry: a stored token may still be valid (written by a
	// previous process or an operator bootstrap).
	if record := m.loadStoredToken(ctx); record.Valid(m.now()) {
		m.mu.Lock()
		m.cached = record
		m.mu.Unlock()
		return record.AccessToken, nil
	}

	return m.RefreshToken(ctx)
}

// RefreshToken performs a single OAuth2 refresh-token grant exchange. It
// fails fast when no refresh token or client credentials are stored, and
// fails closed on any endpoint error: stored state is never mutated unless
// the platform returned a new token.
func (m *TokenManager) RefreshToken(ctx context.Context) (string, error) {
	refresh := m.setting(ctx, integration.SettingRefreshToken)
	if refresh == "" {
		m.log.Warn("token refresh skipped: no refresh token stored")
		return "", integration.ErrTokenUnavailable
	}

	creds := m.credentials(ctx)
	if creds.ClientID == "" || creds.ClientSecret == "" {
		m.log.Warn("token refresh skipped: client credentials missing")
		return "", integration.ErrTokenUnavailable
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refresh)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	endpoint := m.cfg.AccountsBaseURL + "/oauth/v2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("zoho: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.Warn("token refresh request failed", zap.Error(err))
		return "", integration.ErrTokenUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		m.log.Warn("reading token response failed", zap.Error(err))
		return "", integration.ErrTokenUnavailable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.log.Warn("token refresh rejected",
			zap.Int("status", resp.StatusCode))
		return "", integration.ErrTokenUnavailable
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		m.log.Warn("parsing token response failed", zap.Error(err))
		return "", integration.ErrTokenUnavailable
	}
	if tok.Error != "" || tok.AccessToken == "" {
		m.log.Warn("token refresh rejected by platform",
			zap.String("error", tok.Error))
		return "", integration.ErrTokenUnavailable
	}

	if err := m.StoreTokens(ctx, tok.AccessToken, tok.RefreshToken, tok.ExpiresIn); err != nil {
		m.log.Warn("persisting refreshed token failed", zap.Error(err))
		return "", integration.ErrTokenUnavailable
	}

	return tok.AccessToken, nil
}

// StoreTokens upserts the access token (and the rotated refresh token, when
// the platform returned one) and then updates the in-memory cache. Writing
// the store first means a concurrent reader can at worst see a stale cache,
// never a cached token absent from the store.
func (m *TokenManager) StoreTokens(ctx context.Context, access, refresh string, expiresInSeconds int64) error {
	expiresAt := m.now().Add(time.Duration(expiresInSeconds) * time.Second)

	if err := m.store.Set(ctx, integration.SettingAccessToken, access, &expiresAt); err != nil {
		return err
	}
	if refresh != "" {
		if err := m.store.Set(ctx, integration.SettingRefreshToken, refresh, nil); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.cached = &integration.TokenRecord{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}
	m.mu.Unlock()
	return nil
}

// IsConfigured reports whether client ID, organization ID and a retrievable
// access token all resolve non-empty
func (m *TokenManager) IsConfigured(ctx context.Context) bool {
	if m.setting(ctx, integration.SettingClientID) == "" {
		return false
	}
	org, err := m.OrganizationID(ctx)
	if err != nil || org == "" {
		return false
	}
	return m.setting(ctx, integration.SettingAccessToken) != ""
}

// OrganizationID resolves the platform organization identifier from the
// store, falling back to the config seed
func (m *TokenManager) OrganizationID(ctx context.Context) (string, error) {
	if org := m.setting(ctx, integration.SettingOrganizationID); org != "" {
		return org, nil
	}
	if m.cfg.OrganizationID != "" {
		return m.cfg.OrganizationID, nil
	}
	return "", integration.ErrNotConfigured
}

// SeedFromConfig writes configured credential seeds into the store for keys
// that have never been written. Existing rows always win: the store is
// authoritative after the first refresh cycle.
func (m *TokenManager) SeedFromConfig(ctx context.Context) error {
	seeds := []struct {
		key   string
		value string
	}{
		{integration.SettingClientID, m.cfg.ClientID},
		{integration.SettingClientSecret, m.cfg.ClientSecret},
		{integration.SettingOrganizationID, m.cfg.OrganizationID},
		{integration.SettingRefreshToken, m.cfg.RefreshToken},
		{integration.SettingAccessToken, m.cfg.AccessToken},
	}

	for _, seed := range seeds {
		if seed.value == "" {
			continue
		}
		_, _, err := m.store.Get(ctx, seed.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		var expiresAt *time.Time
		if seed.key == integration.SettingAccessToken {
			// Seed tokens have unknown remaining life; force a refresh on
			// first use by marking them already expired.
			past := m.now().Add(-time.Minute)
			expiresAt = &past
		}
		if err := m.store.Set(ctx, seed.key, seed.value, expiresAt); err != nil {
			return err
		}
	}
	return nil
}

// loadStoredToken reads the persisted access token row, returning nil when
// absent or unusable
func (m *TokenManager) loadStoredToken(ctx context.Context) *integration.TokenRecord {
	value, expiresAt, err := m.store.Get(ctx, integration.SettingAccessToken)
	if err != nil || value == "" || expiresAt == nil {
		return nil
	}
	return &integration.TokenRecord{AccessToken: value, ExpiresAt: *expiresAt}
}

// setting reads a store key, treating any failure as absence
func (m *TokenManager) setting(ctx context.Context, key string) string {
	value, _, err := m.store.Get(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

// credentials loads the client credential set from the store with config
// seeds as fallback
func (m *TokenManager) credentials(ctx context.Context) integration.CredentialConfig {
	creds := integration.CredentialConfig{
		ClientID:       m.setting(ctx, integration.SettingClientID),
		ClientSecret:   m.setting(ctx, integration.SettingClientSecret),
		OrganizationID: m.setting(ctx, integration.SettingOrganizationID),
	}
	if creds.ClientID == "" {
		creds.ClientID = m.cfg.ClientID
	}
	if creds.ClientSecret == "" {
		creds.ClientSecret = m.cfg.ClientSecret
	}
	if creds.OrganizationID == "" {
		creds.OrganizationID = m.cfg.OrganizationID
	}
	return creds
}

// Ensure TokenManager implements the TokenProvider port
var _ integration.TokenProvider = (*TokenManager)(nil)
