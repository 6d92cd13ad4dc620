package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestTransferTransition(t *testing.T) {
	cases := []struct {
		from    entity.TransferStatus
		action  inventory.TransferAction
		allowed bool
		next    entity.TransferStatus
	}{
		{entity.TransferPending, inventory.TransferShip, true, entity.TransferInTransit},
		{entity.TransferInTransit, inventory.TransferShip, false, entity.TransferInTransit},
		{entity.TransferCompleted, inventory.TransferShip, false, entity.TransferCompleted},
		{entity.TransferPending, inventory.TransferReceive, false, entity.TransferPending},
		{entity.TransferInTransit, inventory.TransferReceive, true, entity.TransferInTransit},
		{entity.TransferCompleted, inventory.TransferReceive, false, entity.TransferCompleted},
		{entity.TransferCancelled, inventory.TransferReceive, false, entity.TransferCancelled},
		{entity.TransferPending, inventory.TransferCancel, true, entity.TransferCancelled},
		{entity.TransferInTransit, inventory.TransferCancel, true, entity.TransferCancelled},
		{entity.TransferCompleted, inventory.TransferCancel, false, entity.TransferCompleted},
	}
	for _, tc := range cases {
		d := inventory.TransferTransition(tc.from, tc.action)
		assert.Equal(t, tc.allowed, d.Allowed, "%s + %s", tc.from, tc.action)
		assert.Equal(t, tc.next, d.Next, "%s + %s", tc.from, tc.action)
		if !d.Allowed {
			assert.NotEmpty(t, d.Reason)
		}
	}
}

func TestDeriveTransferStatus(t *testing.T) {
	five := decimal.NewFromInt(5)
	assert.Equal(t, entity.TransferCompleted, inventory.DeriveTransferStatus(entity.TransferInTransit, five, five))
	assert.Equal(t, entity.TransferInTransit, inventory.DeriveTransferStatus(entity.TransferInTransit, five, decimal.NewFromInt(2)))
	assert.Equal(t, entity.TransferInTransit, inventory.DeriveTransferStatus(entity.TransferPending, five, decimal.RequireFromString("0.5")))
	assert.Equal(t, entity.TransferPending, inventory.DeriveTransferStatus(entity.TransferPending, five, decimal.Zero))
	// Sin cantidad solicitada nunca se completa.
	assert.Equal(t, entity.TransferPending, inventory.DeriveTransferStatus(entity.TransferPending, decimal.Zero, decimal.Zero))
}

func TestStockCountTransition(t *testing.T) {
	d := inventory.StockCountTransition(entity.StockCountPending, inventory.CountEnter)
	assert.True(t, d.Allowed)
	assert.Equal(t, entity.StockCountCounting, d.Next)

	d = inventory.StockCountTransition(entity.StockCountReview, inventory.CountEnter)
	assert.True(t, d.Allowed, "se permite recontar después de revisión")
	assert.Equal(t, entity.StockCountReview, d.Next)

	assert.False(t, inventory.StockCountTransition(entity.StockCountCompleted, inventory.CountEnter).Allowed)
	assert.False(t, inventory.StockCountTransition(entity.StockCountPending, inventory.CountReview).Allowed)
	assert.True(t, inventory.StockCountTransition(entity.StockCountCounting, inventory.CountReview).Allowed)
	assert.False(t, inventory.StockCountTransition(entity.StockCountCounting, inventory.CountPost).Allowed)

	d = inventory.StockCountTransition(entity.StockCountReview, inventory.CountPost)
	assert.True(t, d.Allowed)
	assert.Equal(t, entity.StockCountCompleted, d.Next)

	assert.False(t, inventory.StockCountTransition(entity.StockCountCompleted, inventory.CountCancel).Allowed)
}

func TestReviewItemTransition(t *testing.T) {
	assert.True(t, inventory.ReviewItemTransition(entity.CountItemCounted, entity.CountItemApproved).Allowed)
	assert.True(t, inventory.ReviewItemTransition(entity.CountItemRecountRequested, entity.CountItemSkipped).Allowed)
	assert.False(t, inventory.ReviewItemTransition(entity.CountItemPending, entity.CountItemApproved).Allowed)
	assert.False(t, inventory.ReviewItemTransition(entity.CountItemApproved, entity.CountItemSkipped).Allowed)
	assert.False(t, inventory.ReviewItemTransition(entity.CountItemCounted, entity.CountItemCounted).Allowed)
}

func TestPosts_SoloAprobadosConVarianza(t *testing.T) {
	v := decimal.NewFromInt(-2)
	zero := decimal.Zero
	assert.True(t, inventory.Posts(&entity.StockCountItem{Status: entity.CountItemApproved, VarianceQuantity: &v}))
	assert.False(t, inventory.Posts(&entity.StockCountItem{Status: entity.CountItemApproved, VarianceQuantity: &zero}))
	assert.False(t, inventory.Posts(&entity.StockCountItem{Status: entity.CountItemSkipped, VarianceQuantity: &v}))
	assert.False(t, inventory.Posts(&entity.StockCountItem{Status: entity.CountItemApproved}))
}

func TestOrderTransition(t *testing.T) {
	for _, s := range []entity.OrderStatus{
		entity.OrderShipped, entity.OrderCompleted, entity.OrderCancelled, entity.OrderReturned,
	} {
		assert.False(t, inventory.OrderTransition(s, inventory.OrderCancel).Allowed, "cancelar desde %s", s)
	}
	for _, s := range []entity.OrderStatus{entity.OrderPendingPayment, entity.OrderProcessing} {
		d := inventory.OrderTransition(s, inventory.OrderCancel)
		assert.True(t, d.Allowed, "cancelar desde %s", s)
		assert.Equal(t, entity.OrderCancelled, d.Next)
	}
	assert.True(t, inventory.OrderTransition(entity.OrderPendingPayment, inventory.OrderConfirm).Allowed)
	assert.False(t, inventory.OrderTransition(entity.OrderProcessing, inventory.OrderConfirm).Allowed)
	assert.True(t, inventory.OrderTransition(entity.OrderCompleted, inventory.OrderReturn).Allowed)
	assert.False(t, inventory.OrderTransition(entity.OrderProcessing, inventory.OrderReturn).Allowed)

	assert.True(t, inventory.AllocatesStock(entity.OrderProcessing))
	assert.False(t, inventory.AllocatesStock(entity.OrderPendingPayment))
}
