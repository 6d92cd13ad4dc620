package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type fakeSheet struct {
	items []*entity.StockCountItem
}

func (s *fakeSheet) GenerateCountSheet(_ context.Context, _ *entity.StockCount, _ *entity.Location, items []*entity.StockCountItem) ([]byte, error) {
	s.items = items
	return []byte("%PDF"), nil
}

func (f *fixture) counts(sheet inventory.CountSheetGenerator) *inventory.StockCountUseCase {
	return inventory.NewStockCountUseCase(f.store, f.policy, f.catalog, f.repos.StockCounts(), sheet, logger.Nop())
}

func itemFor(items []*entity.StockCountItem, productID string) *entity.StockCountItem {
	for _, it := range items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}

func TestStockCount_FlujoCompletoConVarianzas(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	a := f.product("A-1", true)
	b := f.product("B-1", true)
	c := f.product("C-1", true)
	f.product("SERV", false)
	f.stock(a, loc, "10")
	f.stock(b, loc, "4")
	f.stock(c, loc, "7")
	uc := f.counts(&fakeSheet{})

	sc, err := uc.InitiateStockCount(f.ctx, inventory.InitiateCountInput{
		TenantID: tenant, UserID: "u-1", LocationID: loc.ID, Type: entity.StockCountFull,
	})
	require.NoError(t, err)
	require.Len(t, sc.Items, 3, "solo productos activos con control de stock")
	assert.True(t, itemFor(sc.Items, a.ID).SnapshotQuantity.Equal(dec("10")))

	// Una venta concurrente no cambia el snapshot.
	f.stock(a, loc, "-2")

	res, err := uc.EnterCountData(f.ctx, inventory.EnterCountInput{
		TenantID: tenant, UserID: "u-2", StockCountID: sc.Count.ID,
		Entries: []inventory.CountEntry{
			{ItemID: itemFor(sc.Items, a.ID).ID, CountedQuantity: dec("9")},
			{ItemID: itemFor(sc.Items, b.ID).ID, CountedQuantity: dec("4")},
			{ItemID: itemFor(sc.Items, c.ID).ID, CountedQuantity: dec("8.5")},
			{ItemID: "ajeno", CountedQuantity: dec("1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountCounting, res.Count.Status)
	assert.True(t, itemFor(res.Items, a.ID).VarianceQuantity.Equal(dec("-1")))

	res, err = uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{
		TenantID: tenant, UserID: "sup", StockCountID: sc.Count.ID,
		Actions: []inventory.ReviewAction{
			{ItemID: itemFor(sc.Items, a.ID).ID, Status: entity.CountItemApproved},
			{ItemID: itemFor(sc.Items, b.ID).ID, Status: entity.CountItemApproved},
			{ItemID: itemFor(sc.Items, c.ID).ID, Status: entity.CountItemSkipped},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountReview, res.Count.Status)
	assert.Equal(t, "sup", res.Count.ReviewedBy)

	posted, err := uc.PostStockCountAdjustments(f.ctx, tenant, "sup", sc.Count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountCompleted, posted.Count.Status)
	require.NotNil(t, posted.Adjustment)
	assert.Equal(t, entity.ReasonStockCountVariance, posted.Adjustment.Adjustment.ReasonCode)
	require.Len(t, posted.Adjustment.Lines, 1, "solo A: aprobado con varianza distinta de cero")
	assert.Equal(t, posted.Adjustment.Adjustment.ID, posted.Count.AdjustmentID)

	// A: 10 - 2 (venta) - 1 (varianza) = 7
	assert.True(t, f.onHand(a, loc).Equal(dec("7")))
	last := f.transactions(a, loc)[0]
	assert.Equal(t, entity.TxCycleCountAdjustment, last.Type)
	assert.True(t, last.Quantity.Equal(dec("-1")))
	assert.Len(t, f.transactions(b, loc), 1, "B aprobado sin varianza no genera movimiento")
	assert.True(t, f.onHand(c, loc).Equal(dec("7")), "C omitido no se ajusta")
	f.requireLedgerConsistent(a, loc)
}

func TestStockCount_SinVarianzasSeCompletaSinAjuste(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	a := f.product("A-1", true)
	f.stock(a, loc, "3")
	uc := f.counts(&fakeSheet{})

	sc, err := uc.InitiateStockCount(f.ctx, inventory.InitiateCountInput{
		TenantID: tenant, LocationID: loc.ID, Type: entity.StockCountCycle, ProductIDs: []string{a.ID, a.ID},
	})
	require.NoError(t, err)
	require.Len(t, sc.Items, 1)
	id := sc.Items[0].ID

	_, err = uc.EnterCountData(f.ctx, inventory.EnterCountInput{
		TenantID: tenant, StockCountID: sc.Count.ID,
		Entries: []inventory.CountEntry{{ItemID: id, CountedQuantity: dec("3")}},
	})
	require.NoError(t, err)
	_, err = uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{
		TenantID: tenant, StockCountID: sc.Count.ID,
		Actions: []inventory.ReviewAction{{ItemID: id, Status: entity.CountItemApproved}},
	})
	require.NoError(t, err)

	posted, err := uc.PostStockCountAdjustments(f.ctx, tenant, "sup", sc.Count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountCompleted, posted.Count.Status)
	assert.Nil(t, posted.Adjustment)
	assert.Empty(t, posted.Count.AdjustmentID)
	assert.Len(t, f.transactions(a, loc), 1)
}

func TestStockCount_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	a := f.product("A-1", true)
	uc := f.counts(&fakeSheet{})

	sc, err := uc.InitiateStockCount(f.ctx, inventory.InitiateCountInput{
		TenantID: tenant, LocationID: loc.ID, Type: entity.StockCountFull,
	})
	require.NoError(t, err)
	assert.True(t, sc.Items[0].SnapshotQuantity.IsZero(), "sin saldo previo el snapshot es cero")
	assert.True(t, sc.Items[0].SnapshotCost.Equal(a.Cost))

	_, err = uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{TenantID: tenant, StockCountID: sc.Count.ID})
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err), "no se revisa un conteo PENDING")

	_, err = uc.PostStockCountAdjustments(f.ctx, tenant, "sup", sc.Count.ID)
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))

	// Revisar un ítem no contado es un no-op para ese ítem.
	_, err = uc.EnterCountData(f.ctx, inventory.EnterCountInput{TenantID: tenant, StockCountID: sc.Count.ID})
	require.NoError(t, err)
	res, err := uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{
		TenantID: tenant, StockCountID: sc.Count.ID,
		Actions: []inventory.ReviewAction{{ItemID: sc.Items[0].ID, Status: entity.CountItemApproved}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CountItemPending, res.Items[0].Status)

	cancelled, err := uc.CancelStockCount(f.ctx, tenant, "sup", sc.Count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountCancelled, cancelled.Count.Status)
	_, err = uc.EnterCountData(f.ctx, inventory.EnterCountInput{TenantID: tenant, StockCountID: sc.Count.ID})
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))
}

func TestStockCount_RecontarDespuesDeRevision(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	a := f.product("A-1", true)
	f.stock(a, loc, "5")
	uc := f.counts(&fakeSheet{})

	sc, err := uc.InitiateStockCount(f.ctx, inventory.InitiateCountInput{
		TenantID: tenant, LocationID: loc.ID, Type: entity.StockCountFull,
	})
	require.NoError(t, err)
	id := sc.Items[0].ID
	enter := func(qty string) {
		_, err := uc.EnterCountData(f.ctx, inventory.EnterCountInput{
			TenantID: tenant, StockCountID: sc.Count.ID,
			Entries: []inventory.CountEntry{{ItemID: id, CountedQuantity: dec(qty)}},
		})
		require.NoError(t, err)
	}
	enter("2")
	_, err = uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{
		TenantID: tenant, StockCountID: sc.Count.ID,
		Actions: []inventory.ReviewAction{{ItemID: id, Status: entity.CountItemRecountRequested}},
	})
	require.NoError(t, err)

	enter("6")
	res, err := uc.ReviewStockCount(f.ctx, inventory.ReviewCountInput{
		TenantID: tenant, StockCountID: sc.Count.ID,
		Actions: []inventory.ReviewAction{{ItemID: id, Status: entity.CountItemApproved}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StockCountReview, res.Count.Status)

	_, err = uc.PostStockCountAdjustments(f.ctx, tenant, "sup", sc.Count.ID)
	require.NoError(t, err)
	assert.True(t, f.onHand(a, loc).Equal(dec("6")))
}

func TestStockCount_HojaDeConteo(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Bodega")
	f.product("A-1", true)
	sheet := &fakeSheet{}
	uc := f.counts(sheet)

	sc, err := uc.InitiateStockCount(f.ctx, inventory.InitiateCountInput{
		TenantID: tenant, LocationID: loc.ID, Type: entity.StockCountFull,
	})
	require.NoError(t, err)
	pdf, err := uc.CountSheet(f.ctx, tenant, sc.Count.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Len(t, sheet.items, 1)

	_, err = uc.CountSheet(f.ctx, tenant, "no-existe")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
