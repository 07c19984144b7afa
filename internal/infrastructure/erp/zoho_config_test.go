package erp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZohoConfigValidate(t *testing.T) {
	t.Run("fills production defaults", func(t *testing.T) {
		cfg := NewZohoConfig("client-1", "secret-1", "org-1")

		require.NoError(t, cfg.Validate())
		assert.Equal(t, ZohoAccountsURL, cfg.AccountsBaseURL)
		assert.Equal(t, ZohoInventoryAPIURL, cfg.APIBaseURL)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
		assert.Equal(t, 200, cfg.PageSize)
	})

	t.Run("fills missing optional fields", func(t *testing.T) {
		cfg := &ZohoConfig{APIBaseURL: "http://api.local"}

		require.NoError(t, cfg.Validate())
		assert.Equal(t, ZohoAccountsURL, cfg.AccountsBaseURL)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
		assert.Equal(t, 200, cfg.PageSize)
	})

	t.Run("requires an api base url", func(t *testing.T) {
		cfg := &ZohoConfig{}

		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrZohoConfigMissingAPIBaseURL)
	})

	t.Run("missing credentials are not an error", func(t *testing.T) {
		cfg := &ZohoConfig{APIBaseURL: "http://api.local"}
		assert.NoError(t, cfg.Validate())
	})
}
