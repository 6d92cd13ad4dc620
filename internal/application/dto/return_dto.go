package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReturnItemRequest línea devuelta contra una línea del pedido.
type ReturnItemRequest struct {
	OrderItemID  string          `json:"order_item_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Condition    string          `json:"condition" validate:"required,oneof=SELLABLE DAMAGED DEFECTIVE DISPOSED"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// CreateReturnRequest body para POST /api/orders/:id/returns.
type CreateReturnRequest struct {
	LocationID   string              `json:"location_id,omitempty"`
	Reason       string              `json:"reason" validate:"required,max=300"`
	RefundMethod string              `json:"refund_method,omitempty" validate:"max=50"`
	Items        []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReturnItemResponse línea devuelta.
type ReturnItemResponse struct {
	ID           string          `json:"id"`
	OrderItemID  string          `json:"order_item_id"`
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Condition    string          `json:"condition"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Restocked    bool            `json:"restocked"`
}

// RefundResponse reembolso registrado.
type RefundResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// ReturnResponse devolución procesada.
type ReturnResponse struct {
	ID          string               `json:"id"`
	Number      string               `json:"number"`
	OrderID     string               `json:"order_id"`
	OrderStatus string               `json:"order_status,omitempty"`
	LocationID  string               `json:"location_id"`
	Status      string               `json:"status"`
	Reason      string               `json:"reason"`
	RefundTotal decimal.Decimal      `json:"refund_total"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	Items       []ReturnItemResponse `json:"items"`
	Refund      *RefundResponse      `json:"refund,omitempty"`
}

func NewReturnResponse(ret *entity.Return, items []*entity.ReturnItem, refund *entity.Refund) ReturnResponse {
	out := ReturnResponse{
		ID:          ret.ID,
		Number:      ret.Number,
		OrderID:     ret.OrderID,
		LocationID:  ret.LocationID,
		Status:      string(ret.Status),
		Reason:      ret.Reason,
		RefundTotal: ret.RefundTotal,
		CreatedBy:   ret.CreatedBy,
		CreatedAt:   ret.CreatedAt,
		Items:       make([]ReturnItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, ReturnItemResponse{
			ID:           it.ID,
			OrderItemID:  it.OrderItemID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Condition:    string(it.Condition),
			RefundAmount: it.RefundAmount,
			Restocked:    it.Restocked,
		})
	}
	if refund != nil {
		out.Refund = &RefundResponse{ID: refund.ID, Amount: refund.Amount, Method: refund.Method}
	}
	return out
}
