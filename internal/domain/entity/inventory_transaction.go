package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipos de movimiento del ledger.
type TransactionType string

const (
	TxSale                 TransactionType = "SALE"
	TxAdjustmentIn         TransactionType = "ADJUSTMENT_IN"
	TxAdjustmentOut        TransactionType = "ADJUSTMENT_OUT"
	TxTransferOut          TransactionType = "TRANSFER_OUT"
	TxTransferIn           TransactionType = "TRANSFER_IN"
	TxReturnRestock        TransactionType = "RETURN_RESTOCK"
	TxCycleCountAdjustment TransactionType = "CYCLE_COUNT_ADJUSTMENT"
	TxPurchaseReceipt      TransactionType = "PURCHASE_RECEIPT"
)

// Valid indica si el tipo es conocido.
func (t TransactionType) Valid() bool {
	switch t {
	case TxSale, TxAdjustmentIn, TxAdjustmentOut, TxTransferOut, TxTransferIn,
		TxReturnRestock, TxCycleCountAdjustment, TxPurchaseReceipt:
		return true
	}
	return false
}

// Linkage vincula el movimiento con exactamente un documento origen (o ninguno).
type Linkage struct {
	OrderID             string
	OrderItemID         string
	AdjustmentID        string
	TransferID          string
	TransferLineID      string
	PurchaseOrderID     string
	PurchaseOrderItemID string
	ReturnItemID        string
}

// Documents cuenta cuántos documentos distintos referencia el vínculo.
func (l Linkage) Documents() int {
	n := 0
	if l.OrderID != "" || l.OrderItemID != "" {
		n++
	}
	if l.AdjustmentID != "" {
		n++
	}
	if l.TransferID != "" || l.TransferLineID != "" {
		n++
	}
	if l.PurchaseOrderID != "" || l.PurchaseOrderItemID != "" {
		n++
	}
	if l.ReturnItemID != "" {
		n++
	}
	return n
}

// InventoryTransaction es la fila inmutable del ledger: una por cada cambio de saldo.
type InventoryTransaction struct {
	ID         string
	TenantID   string
	ProductID  string
	LocationID string
	Type       TransactionType
	Quantity   decimal.Decimal // delta con signo
	UnitCost   *decimal.Decimal
	Link       Linkage
	Lot        string
	Serial     string
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
}
