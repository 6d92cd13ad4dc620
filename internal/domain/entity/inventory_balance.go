package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance es el saldo por (tenant, producto, ubicación). Se crea con el primer
// movimiento y nunca se elimina. QuantityOnHand solo lo modifica el ledger.
type InventoryBalance struct {
	ID                string
	TenantID          string
	ProductID         string
	LocationID        string
	QuantityOnHand    decimal.Decimal
	QuantityAllocated decimal.Decimal
	QuantityIncoming  decimal.Decimal
	AverageCost       decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available = en mano - asignado.
func (b *InventoryBalance) Available() decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b.QuantityOnHand.Sub(b.QuantityAllocated)
}
