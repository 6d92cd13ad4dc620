package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCondition condición física del ítem devuelto.
type ItemCondition string

const (
	ConditionSellable  ItemCondition = "SELLABLE"
	ConditionDamaged   ItemCondition = "DAMAGED"
	ConditionDefective ItemCondition = "DEFECTIVE"
	ConditionDisposed  ItemCondition = "DISPOSED"
)

// Valid indica si la condición es conocida.
func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionSellable, ConditionDamaged, ConditionDefective, ConditionDisposed:
		return true
	}
	return false
}

// Restocks solo lo vendible vuelve al inventario.
func (c ItemCondition) Restocks() bool { return c == ConditionSellable }

// ReturnStatus estado de la devolución; se procesa completa al crearla.
type ReturnStatus string

const (
	ReturnCompleted ReturnStatus = "COMPLETED"
)

// Return cabecera de la devolución de un pedido.
type Return struct {
	ID          string
	TenantID    string
	Number      string
	OrderID     string
	LocationID  string
	Status      ReturnStatus
	Reason      string
	RefundTotal decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
}

// ReturnItem línea devuelta contra una línea del pedido.
type ReturnItem struct {
	ID           string
	ReturnID     string
	OrderItemID  string
	ProductID    string
	Quantity     decimal.Decimal
	Condition    ItemCondition
	RefundAmount decimal.Decimal
	Restocked    bool
}

// Refund registro del reembolso asociado a la devolución.
type Refund struct {
	ID        string
	ReturnID  string
	Amount    decimal.Decimal
	Method    string
	CreatedAt time.Time
}
