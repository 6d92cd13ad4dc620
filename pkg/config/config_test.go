package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Inventory.StoreDriver)
	assert.False(t, cfg.Inventory.AllowNegativeStock)
	assert.Equal(t, 300*time.Second, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.JWT.Issuer, "sin JWT_ISSUER no se exige emisor")
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, cfg.App.Name, cfg.DB.AppName)
}

func TestLoad_DBPoolYEmisor(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("DB_MIN_CONNS", "1")
	t.Setenv("DB_MAX_CONN_LIFETIME_MINUTES", "15")
	t.Setenv("DB_MAX_CONN_IDLE_MINUTES", "5")
	t.Setenv("JWT_ISSUER", "idp-central")
	t.Setenv("APP_NAME", "ledger-bodega")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(8), cfg.DB.MaxConns)
	assert.Equal(t, int32(1), cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, "ledger-bodega", cfg.DB.AppName)
	assert.Equal(t, "idp-central", cfg.JWT.Issuer)
}

func TestLoad_InventoryOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("INVENTORY_ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("INVENTORY_NEGATIVE_STOCK_TENANTS", " t1, ,t2 ")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "30")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Inventory.StoreDriver)
	assert.True(t, cfg.Inventory.AllowNegativeStock)
	assert.Equal(t, []string{"t1", "t2"}, cfg.Inventory.NegativeStockTenants)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
