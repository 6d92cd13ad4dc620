package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestNewPoolConfig_TomaLimitesDeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.interno", Port: 5433, User: "ledger", Password: "s3cr#t", DBName: "inventario", SSLMode: "disable",
		AppName:         "inventario-ledger",
		MaxConns:        12,
		MinConns:        3,
		MaxConnLifetime: 20 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
	}
	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.interno", pc.ConnConfig.Host, "el host no se reescribe")
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "s3cr#t", pc.ConnConfig.Password)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 20*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "inventario-ledger", pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect, "registro del codec decimal")
}

func TestNewPoolConfig_DatabaseURLYDefaults(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://app@pg.example.com:6543/ledger?sslmode=disable&pool_max_conns=7"})
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", pc.ConnConfig.Host)
	assert.Equal(t, int32(7), pc.MaxConns, "sin límite en config se respeta el del DSN")

	pc, err = newPoolConfig(config.DBConfig{DatabaseURL: "postgres://app@pg/ledger?sslmode=disable", MaxConns: 2, MinConns: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), pc.MinConns, "MinConns nunca supera MaxConns")
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
