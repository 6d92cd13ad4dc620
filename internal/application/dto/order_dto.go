package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OrderItemRequest línea del pedido. Sin unit_price se toma el precio del catálogo.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Lot       string           `json:"lot,omitempty" validate:"max=100"`
	Serial    string           `json:"serial,omitempty" validate:"max=100"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"max=100"`
	LocationID string             `json:"location_id" validate:"required"`
	Status     string             `json:"status" validate:"omitempty,oneof=PENDING_PAYMENT PROCESSING"`
	Notes      string             `json:"notes" validate:"max=500"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse línea del pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Lot       string          `json:"lot,omitempty"`
	Serial    string          `json:"serial,omitempty"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID          string              `json:"id"`
	Number      string              `json:"number"`
	CustomerID  string              `json:"customer_id,omitempty"`
	LocationID  string              `json:"location_id"`
	Status      string              `json:"status"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Total       decimal.Decimal     `json:"total"`
	Notes       string              `json:"notes,omitempty"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	Items       []OrderItemResponse `json:"items"`
}

func NewOrderResponse(o *entity.Order, items []*entity.OrderItem) OrderResponse {
	out := OrderResponse{
		ID:          o.ID,
		Number:      o.Number,
		CustomerID:  o.CustomerID,
		LocationID:  o.LocationID,
		Status:      string(o.Status),
		Subtotal:    o.Subtotal,
		Total:       o.Total,
		Notes:       o.Notes,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CancelledAt: o.CancelledAt,
		Items:       make([]OrderItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			Lot:       it.Lot,
			Serial:    it.Serial,
		})
	}
	return out
}
