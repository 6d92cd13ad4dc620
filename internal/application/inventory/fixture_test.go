package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

const tenant = "tenant-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memory.Store
	repos   repository.Tx
	catalog *inventory.Catalog
	policy  inventory.StockPolicy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	return &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   store,
		repos:   repos,
		catalog: inventory.NewCatalog(repos.Products(), repos.Locations()),
		policy:  inventory.NewConfigStockPolicy(false, nil),
	}
}

func (f *fixture) location(name string) *entity.Location {
	f.t.Helper()
	l := &entity.Location{
		ID:        uuid.New().String(),
		TenantID:  tenant,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(f.t, f.repos.Locations().Create(f.ctx, l))
	return l
}

func (f *fixture) product(sku string, tracked bool) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenant,
		SKU:          sku,
		Name:         "Producto " + sku,
		Price:        dec("10"),
		Cost:         dec("4"),
		ReorderPoint: decimal.Zero,
		UnitMeasure:  "UND",
		TrackStock:   tracked,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(f.t, f.repos.Products().Create(f.ctx, p))
	return p
}

// stock deja el saldo inicial con un movimiento de ajuste real, así el ledger queda consistente.
func (f *fixture) stock(p *entity.Product, l *entity.Location, qty string) {
	f.t.Helper()
	typ := entity.TxAdjustmentIn
	if dec(qty).IsNegative() {
		typ = entity.TxAdjustmentOut
	}
	err := f.store.Run(f.ctx, func(tx repository.Tx) error {
		_, _, err := inventory.NewLedger(tx, inventory.StockRules{}).Record(f.ctx, inventory.Movement{
			TenantID:   tenant,
			UserID:     "seed",
			ProductID:  p.ID,
			LocationID: l.ID,
			Quantity:   dec(qty),
			Type:       typ,
		})
		return err
	})
	require.NoError(f.t, err)
}

func (f *fixture) onHand(p *entity.Product, l *entity.Location) decimal.Decimal {
	f.t.Helper()
	b, err := f.repos.Balances().Get(f.ctx, tenant, p.ID, l.ID)
	require.NoError(f.t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.QuantityOnHand
}

func (f *fixture) transactions(p *entity.Product, l *entity.Location) []*entity.InventoryTransaction {
	f.t.Helper()
	txs, err := f.repos.Transactions().List(f.ctx, repository.TransactionFilter{
		TenantID: tenant, ProductID: p.ID, LocationID: l.ID,
	})
	require.NoError(f.t, err)
	return txs
}

// requireLedgerConsistent saldo = suma de deltas del ledger para la terna.
func (f *fixture) requireLedgerConsistent(p *entity.Product, l *entity.Location) {
	f.t.Helper()
	sum := decimal.Zero
	for _, txn := range f.transactions(p, l) {
		sum = sum.Add(txn.Quantity)
	}
	require.True(f.t, sum.Equal(f.onHand(p, l)), "saldo %s != suma de movimientos %s", f.onHand(p, l), sum)
}
