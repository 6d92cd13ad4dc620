package inventory_test

import (
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func (f *fixture) record(rules inventory.StockRules, m inventory.Movement) (*entity.InventoryBalance, *entity.InventoryTransaction, error) {
	var bal *entity.InventoryBalance
	var txn *entity.InventoryTransaction
	err := f.store.Run(f.ctx, func(tx repository.Tx) error {
		var err error
		bal, txn, err = inventory.NewLedger(tx, rules).Record(f.ctx, m)
		return err
	})
	return bal, txn, err
}

func TestLedger_CantidadCeroEsErrorDeUso(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)

	_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID,
		Quantity: decimal.Zero, Type: entity.TxAdjustmentIn,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindUsage, domain.KindOf(err))
	assert.True(t, errors.Is(err, domain.ErrUsage))

	b, err := f.repos.Balances().Get(f.ctx, tenant, p.ID, loc.ID)
	require.NoError(t, err)
	assert.Nil(t, b, "no debe crearse la fila de saldo")
	assert.Empty(t, f.transactions(p, loc))
}

func TestLedger_VinculoConVariosDocumentosEsErrorDeUso(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)

	_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID,
		Quantity: dec("1"), Type: entity.TxAdjustmentIn,
		Link: entity.Linkage{OrderID: "o-1", AdjustmentID: "a-1"},
	})
	assert.Equal(t, domain.KindUsage, domain.KindOf(err))
	assert.Empty(t, f.transactions(p, loc))
}

func TestLedger_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)
	f.stock(p, loc, "3")

	_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID,
		Quantity: dec("-3.5"), Type: entity.TxSale,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "3", de.Details["available"])
	assert.Equal(t, "3.5", de.Details["requested"])

	assert.True(t, f.onHand(p, loc).Equal(dec("3")), "el saldo no debe cambiar")
	assert.Len(t, f.transactions(p, loc), 1)
}

func TestLedger_PermiteNegativoSiLaPoliticaLoAutoriza(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)

	bal, txn, err := f.record(inventory.StockRules{AllowNegative: true}, inventory.Movement{
		TenantID: tenant, UserID: "u-1", ProductID: p.ID, LocationID: loc.ID,
		Quantity: dec("-2"), Type: entity.TxSale, Lot: "L-7", Serial: "S-1", Note: "venta mostrador",
	})
	require.NoError(t, err)
	assert.True(t, bal.QuantityOnHand.Equal(dec("-2")))
	assert.Equal(t, entity.TxSale, txn.Type)
	assert.Equal(t, "L-7", txn.Lot)
	assert.Equal(t, "S-1", txn.Serial)
	assert.Equal(t, "u-1", txn.CreatedBy)
	f.requireLedgerConsistent(p, loc)
}

func TestLedger_SaldoIgualASumaDeMovimientos(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		// Deltas con 4 decimales, positivos y negativos; algunos fallarán por stock insuficiente.
		delta := decimal.New(int64(rng.Intn(20001)-10000), -4)
		if delta.IsZero() {
			continue
		}
		typ := entity.TxAdjustmentIn
		if delta.IsNegative() {
			typ = entity.TxAdjustmentOut
		}
		_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
			TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: delta, Type: typ,
		})
		if err != nil {
			require.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
		}
		require.False(t, f.onHand(p, loc).IsNegative())
	}
	f.requireLedgerConsistent(p, loc)
}

func TestLedger_CostoPromedioPonderado(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)
	two, four := dec("2"), dec("4")

	_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("10"), UnitCost: &two, Type: entity.TxPurchaseReceipt,
	})
	require.NoError(t, err)
	bal, _, err := f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("10"), UnitCost: &four, Type: entity.TxPurchaseReceipt,
	})
	require.NoError(t, err)
	assert.True(t, bal.AverageCost.Equal(dec("3")), "got %s", bal.AverageCost)

	// Una salida no recalcula el costo.
	bal, _, err = f.record(inventory.StockRules{}, inventory.Movement{
		TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("-5"), UnitCost: &four, Type: entity.TxSale,
	})
	require.NoError(t, err)
	assert.True(t, bal.AverageCost.Equal(dec("3")))
}

func TestConfigStockPolicy(t *testing.T) {
	p := inventory.NewConfigStockPolicy(false, []string{" t-2 ", ""})
	r, err := p.Rules(t.Context(), "t-2")
	require.NoError(t, err)
	assert.True(t, r.AllowNegative)
	r, _ = p.Rules(t.Context(), "t-1")
	assert.False(t, r.AllowNegative)

	all := inventory.NewConfigStockPolicy(true, nil)
	r, _ = all.Rules(t.Context(), "cualquiera")
	assert.True(t, r.AllowNegative)
}

func TestLedger_VentasConcurrentesNuncaSobrevenden(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)
	f.stock(p, loc, "25")

	var ok, rejected atomic.Int64
	var g errgroup.Group
	for i := 0; i < 40; i++ {
		g.Go(func() error {
			_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
				TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("-1"), Type: entity.TxSale,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(25), ok.Load())
	assert.Equal(t, int64(15), rejected.Load())
	assert.True(t, f.onHand(p, loc).IsZero(), "got %s", f.onHand(p, loc))
	f.requireLedgerConsistent(p, loc)
}

func TestLedger_MovimientosConcurrentesNoPierdenActualizaciones(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	p := f.product("A-1", true)
	// Aun si todas las salidas llegan primero el saldo no baja de cero.
	f.stock(p, loc, "13")

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
				TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("0.5"), Type: entity.TxAdjustmentIn,
			})
			return err
		})
		g.Go(func() error {
			_, _, err := f.record(inventory.StockRules{}, inventory.Movement{
				TenantID: tenant, ProductID: p.ID, LocationID: loc.ID, Quantity: dec("-0.25"), Type: entity.TxAdjustmentOut,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	// 13 + 50*0.5 - 50*0.25
	assert.True(t, f.onHand(p, loc).Equal(dec("25.5")), "got %s", f.onHand(p, loc))
	assert.Len(t, f.transactions(p, loc), 101)
	f.requireLedgerConsistent(p, loc)
}
