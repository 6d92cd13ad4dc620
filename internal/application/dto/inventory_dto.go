package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustmentLineRequest línea de ajuste: delta con signo, cero se ignora.
type AdjustmentLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Lot       string           `json:"lot,omitempty" validate:"max=100"`
	Serial    string           `json:"serial,omitempty" validate:"max=100"`
}

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
type CreateAdjustmentRequest struct {
	LocationID string                  `json:"location_id" validate:"required"`
	ReasonCode string                  `json:"reason_code" validate:"required,max=50"`
	Notes      string                  `json:"notes" validate:"max=500"`
	Lines      []AdjustmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentLineResponse línea efectivamente movida.
type AdjustmentLineResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Lot           string           `json:"lot,omitempty"`
	Serial        string           `json:"serial,omitempty"`
	TransactionID string           `json:"transaction_id"`
}

// AdjustmentResponse cabecera y líneas de un ajuste.
type AdjustmentResponse struct {
	ID         string                   `json:"id"`
	LocationID string                   `json:"location_id"`
	ReasonCode string                   `json:"reason_code"`
	Notes      string                   `json:"notes,omitempty"`
	CreatedBy  string                   `json:"created_by"`
	CreatedAt  time.Time                `json:"created_at"`
	Lines      []AdjustmentLineResponse `json:"lines"`
}

// BalanceResponse saldo por producto y ubicación.
type BalanceResponse struct {
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityAllocated decimal.Decimal `json:"quantity_allocated"`
	QuantityIncoming  decimal.Decimal `json:"quantity_incoming"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BalanceListResponse saldos paginados de una ubicación.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// TransactionQuery filtros del feed de movimientos.
type TransactionQuery struct {
	PageRequest
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	Type       string `query:"type" validate:"omitempty,oneof=SALE ADJUSTMENT_IN ADJUSTMENT_OUT TRANSFER_OUT TRANSFER_IN RETURN_RESTOCK CYCLE_COUNT_ADJUSTMENT PURCHASE_RECEIPT"`
}

// TransactionResponse fila del ledger.
type TransactionResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	LocationID     string           `json:"location_id"`
	Type           string           `json:"type"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	OrderID        string           `json:"order_id,omitempty"`
	OrderItemID    string           `json:"order_item_id,omitempty"`
	AdjustmentID   string           `json:"adjustment_id,omitempty"`
	TransferID     string           `json:"transfer_id,omitempty"`
	TransferLineID string           `json:"transfer_line_id,omitempty"`
	ReturnItemID   string           `json:"return_item_id,omitempty"`
	Lot            string           `json:"lot,omitempty"`
	Serial         string           `json:"serial,omitempty"`
	Note           string           `json:"note,omitempty"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TransactionListResponse página del feed de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// cuyo disponible está por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	OnHand             decimal.Decimal `json:"on_hand"`
	Allocated          decimal.Decimal `json:"allocated"`
	Available          decimal.Decimal `json:"available"`            // OnHand - Allocated
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - Available
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

func NewAdjustmentResponse(adj *entity.Adjustment, lines []*entity.AdjustmentLine) AdjustmentResponse {
	out := AdjustmentResponse{
		ID:         adj.ID,
		LocationID: adj.LocationID,
		ReasonCode: adj.ReasonCode,
		Notes:      adj.Notes,
		CreatedBy:  adj.CreatedBy,
		CreatedAt:  adj.CreatedAt,
		Lines:      make([]AdjustmentLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, AdjustmentLineResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitCost:      l.UnitCost,
			Lot:           l.Lot,
			Serial:        l.Serial,
			TransactionID: l.TransactionID,
		})
	}
	return out
}

func NewBalanceResponse(b *entity.InventoryBalance) BalanceResponse {
	return BalanceResponse{
		ProductID:         b.ProductID,
		LocationID:        b.LocationID,
		QuantityOnHand:    b.QuantityOnHand,
		QuantityAllocated: b.QuantityAllocated,
		QuantityIncoming:  b.QuantityIncoming,
		QuantityAvailable: b.Available(),
		AverageCost:       b.AverageCost,
		UpdatedAt:         b.UpdatedAt,
	}
}

func NewTransactionResponse(t *entity.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		ProductID:      t.ProductID,
		LocationID:     t.LocationID,
		Type:           string(t.Type),
		Quantity:       t.Quantity,
		UnitCost:       t.UnitCost,
		OrderID:        t.Link.OrderID,
		OrderItemID:    t.Link.OrderItemID,
		AdjustmentID:   t.Link.AdjustmentID,
		TransferID:     t.Link.TransferID,
		TransferLineID: t.Link.TransferLineID,
		ReturnItemID:   t.Link.ReturnItemID,
		Lot:            t.Lot,
		Serial:         t.Serial,
		Note:           t.Note,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}
