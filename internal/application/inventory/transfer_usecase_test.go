package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func (f *fixture) transfers() *inventory.TransferUseCase {
	return inventory.NewTransferUseCase(f.store, f.policy, f.catalog, f.repos.Transfers(), logger.Nop())
}

func (f *fixture) newTransfer(from, to *entity.Location, p *entity.Product, qty string) *inventory.TransferResult {
	f.t.Helper()
	res, err := f.transfers().CreateTransfer(f.ctx, inventory.TransferInput{
		TenantID: tenant, UserID: "u-1", SourceLocationID: from.ID, DestinationLocationID: to.ID,
		Lines: []inventory.TransferLineInput{{ProductID: p.ID, Quantity: dec(qty)}},
	})
	require.NoError(f.t, err)
	return res
}

func TestTransfer_DespachoYRecepcionCompleta(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "8")

	tr := f.newTransfer(l1, l2, p, "5")
	assert.Equal(t, entity.TransferPending, tr.Transfer.Status)

	shipped, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, shipped.Transfer.Status)
	assert.True(t, f.onHand(p, l1).Equal(dec("3")))
	out := f.transactions(p, l1)[0]
	assert.Equal(t, entity.TxTransferOut, out.Type)
	assert.True(t, out.Quantity.Equal(dec("-5")))
	assert.True(t, shipped.Lines[0].QuantityShipped.Equal(dec("5")))

	received, err := f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
		TenantID: tenant, UserID: "u-2", TransferID: tr.Transfer.ID,
		Lines: []inventory.ReceiveLineInput{{ProductID: p.ID, Quantity: dec("5")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, received.Transfer.Status)
	assert.True(t, f.onHand(p, l2).Equal(dec("5")))
	assert.Equal(t, entity.TxTransferIn, f.transactions(p, l2)[0].Type)
	f.requireLedgerConsistent(p, l1)
	f.requireLedgerConsistent(p, l2)
}

func TestTransfer_SegundoDespachoSeRechaza(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "10")
	tr := f.newTransfer(l1, l2, p, "5")

	_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)
	_, err = f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE_TRANSITION", de.Code)
	assert.Equal(t, "IN_TRANSIT", de.Details["current_status"])
	assert.True(t, f.onHand(p, l1).Equal(dec("5")), "no debe descontar dos veces")
}

func TestTransfer_DespachoSinStockRevierte(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "2")
	tr := f.newTransfer(l1, l2, p, "5")

	_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))

	got, err := f.transfers().GetTransfer(f.ctx, tenant, tr.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, got.Transfer.Status)
	assert.True(t, got.Lines[0].QuantityShipped.IsZero())
}

func TestTransfer_RecepcionParcialYExceso(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "5")
	tr := f.newTransfer(l1, l2, p, "5")
	_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)

	receive := func(qty string) (*inventory.TransferResult, error) {
		return f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
			TenantID: tenant, TransferID: tr.Transfer.ID,
			Lines: []inventory.ReceiveLineInput{{ProductID: p.ID, Quantity: dec(qty)}},
		})
	}

	res, err := receive("2")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, res.Transfer.Status)
	assert.True(t, res.Lines[0].QuantityReceived.Equal(dec("2")))

	_, err = receive("3.0001")
	require.Error(t, err)
	de, _ := domain.AsError(err)
	assert.Equal(t, "OVER_RECEIPT", de.Code)
	assert.Equal(t, "3", de.Details["max_receivable"])

	res, err = receive("3")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, res.Transfer.Status)
	assert.True(t, res.Lines[0].QuantityReceived.Equal(dec("5")))

	// Ya completado: recibir 1 más se rechaza sin tocar saldos.
	_, err = receive("1")
	assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))
	assert.True(t, f.onHand(p, l2).Equal(dec("5")))
	got, _ := f.transfers().GetTransfer(f.ctx, tenant, tr.Transfer.ID)
	assert.Equal(t, entity.TransferCompleted, got.Transfer.Status)
}

func TestTransfer_ExcesoEnPrimeraRecepcion(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "5")
	tr := f.newTransfer(l1, l2, p, "5")
	_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)

	_, err = f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
		TenantID: tenant, TransferID: tr.Transfer.ID,
		Lines: []inventory.ReceiveLineInput{{ProductID: p.ID, Quantity: dec("6")}},
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.True(t, f.onHand(p, l2).IsZero())
	got, _ := f.transfers().GetTransfer(f.ctx, tenant, tr.Transfer.ID)
	assert.Equal(t, entity.TransferInTransit, got.Transfer.Status)
}

func TestTransfer_LineasOmitidasConservanLoRecibido(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	a := f.product("A-1", true)
	b := f.product("B-1", true)
	f.stock(a, l1, "4")
	f.stock(b, l1, "4")
	tr, err := f.transfers().CreateTransfer(f.ctx, inventory.TransferInput{
		TenantID: tenant, SourceLocationID: l1.ID, DestinationLocationID: l2.ID,
		Lines: []inventory.TransferLineInput{{ProductID: a.ID, Quantity: dec("4")}, {ProductID: b.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	_, err = f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)

	res, err := f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
		TenantID: tenant, TransferID: tr.Transfer.ID,
		Lines: []inventory.ReceiveLineInput{{ProductID: a.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferInTransit, res.Transfer.Status)

	res, err = f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
		TenantID: tenant, TransferID: tr.Transfer.ID,
		Lines: []inventory.ReceiveLineInput{{ProductID: b.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, res.Transfer.Status)
}

func TestCreateTransfer_Validaciones(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)

	_, err := f.transfers().CreateTransfer(f.ctx, inventory.TransferInput{
		TenantID: tenant, SourceLocationID: l1.ID, DestinationLocationID: l1.ID,
		Lines: []inventory.TransferLineInput{{ProductID: p.ID, Quantity: dec("1")}},
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.transfers().CreateTransfer(f.ctx, inventory.TransferInput{
		TenantID: tenant, SourceLocationID: l1.ID, DestinationLocationID: l2.ID,
		Lines: []inventory.TransferLineInput{{ProductID: p.ID, Quantity: dec("0")}},
	})
	de, _ := domain.AsError(err)
	require.NotNil(t, de)
	assert.Equal(t, "INVALID_QUANTITY", de.Code)
}

func TestCancelTransfer(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "10")

	t.Run("pendiente sin movimientos", func(t *testing.T) {
		tr := f.newTransfer(l1, l2, p, "3")
		res, err := f.transfers().CancelTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TransferCancelled, res.Transfer.Status)
		assert.True(t, f.onHand(p, l1).Equal(dec("10")))
	})

	t.Run("en tránsito devuelve lo despachado al origen", func(t *testing.T) {
		tr := f.newTransfer(l1, l2, p, "4")
		_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
		require.NoError(t, err)
		require.True(t, f.onHand(p, l1).Equal(dec("6")))

		_, err = f.transfers().CancelTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
		require.NoError(t, err)
		assert.True(t, f.onHand(p, l1).Equal(dec("10")))
		last := f.transactions(p, l1)[0]
		assert.Equal(t, entity.TxTransferIn, last.Type)
		assert.Equal(t, "transfer cancelled", last.Note)
		f.requireLedgerConsistent(p, l1)
	})

	t.Run("con recepciones se rechaza", func(t *testing.T) {
		tr := f.newTransfer(l1, l2, p, "4")
		_, err := f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
		require.NoError(t, err)
		_, err = f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
			TenantID: tenant, TransferID: tr.Transfer.ID,
			Lines: []inventory.ReceiveLineInput{{ProductID: p.ID, Quantity: dec("1")}},
		})
		require.NoError(t, err)

		_, err = f.transfers().CancelTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
		assert.Equal(t, domain.KindBusinessRule, domain.KindOf(err))
	})
}

func TestTransfer_RecepcionSinDespachoSeRechaza(t *testing.T) {
	f := newFixture(t)
	l1, l2 := f.location("Origen"), f.location("Destino")
	p := f.product("A-1", true)
	f.stock(p, l1, "8")
	tr := f.newTransfer(l1, l2, p, "5")

	_, err := f.transfers().ReceiveTransfer(f.ctx, inventory.ReceiveInput{
		TenantID: tenant, UserID: "u-2", TransferID: tr.Transfer.ID,
		Lines: []inventory.ReceiveLineInput{{ProductID: p.ID, Quantity: dec("5")}},
	})
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE_TRANSITION", de.Code)
	assert.Equal(t, "PENDING", de.Details["current_status"])

	assert.True(t, f.onHand(p, l1).Equal(dec("8")))
	assert.True(t, f.onHand(p, l2).IsZero(), "no debe aparecer stock en el destino")
	assert.Empty(t, f.transactions(p, l2))

	// Sigue siendo despachable.
	got, err := f.transfers().GetTransfer(f.ctx, tenant, tr.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, got.Transfer.Status)
	assert.True(t, got.Lines[0].QuantityReceived.IsZero())
	_, err = f.transfers().ShipTransfer(f.ctx, tenant, "u-1", tr.Transfer.ID)
	require.NoError(t, err)
	assert.True(t, f.onHand(p, l1).Equal(dec("3")))
}
