package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tecbunny-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "tecbunny", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "tecbunny-backend", cfg.JWT.Issuer)

	assert.Equal(t, "https://accounts.zoho.com", cfg.Zoho.AccountsBaseURL)
	assert.Equal(t, "https://www.zohoapis.com/inventory/v1", cfg.Zoho.APIBaseURL)
	assert.Equal(t, 30, cfg.Zoho.TimeoutSeconds)
	assert.Equal(t, 200, cfg.Zoho.PageSize)
	assert.Equal(t, 25, cfg.Zoho.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Zoho.BatchDelay)
	assert.Equal(t, 10*time.Minute, cfg.Zoho.LockTTL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TECBUNNY_DATABASE_HOST", "db.internal")
	t.Setenv("TECBUNNY_DATABASE_PORT", "5433")
	t.Setenv("TECBUNNY_ZOHO_CLIENT_ID", "client-from-env")
	t.Setenv("TECBUNNY_ZOHO_BATCH_DELAY", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "client-from-env", cfg.Zoho.ClientID)
	assert.Equal(t, 2*time.Second, cfg.Zoho.BatchDelay)
}

func TestLoadProductionValidation(t *testing.T) {
	t.Run("requires a jwt secret", func(t *testing.T) {
		t.Setenv("TECBUNNY_APP_ENV", "production")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("rejects a short jwt secret", func(t *testing.T) {
		t.Setenv("TECBUNNY_APP_ENV", "production")
		t.Setenv("TECBUNNY_JWT_SECRET", "short")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("requires a database password and ssl", func(t *testing.T) {
		t.Setenv("TECBUNNY_APP_ENV", "production")
		t.Setenv("TECBUNNY_JWT_SECRET", "0123456789abcdef0123456789abcdef")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		t.Setenv("TECBUNNY_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		t.Setenv("TECBUNNY_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 50

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects a negative batch size", func(t *testing.T) {
		cfg := base()
		cfg.Zoho.BatchSize = -1

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch_size")
	})

	t.Run("rejects an out-of-range sampling ratio", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("escapes special characters", func(t *testing.T) {
		d := &DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "p@ss/word#1",
			DBName:   "tecbunny",
			SSLMode:  "disable",
		}

		dsn := d.DSN()

		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "sslmode=disable")
		assert.NotContains(t, dsn, "p@ss/word#1")
	})
}

func TestRedisAddr(t *testing.T) {
	r := &RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", r.Addr())
}
