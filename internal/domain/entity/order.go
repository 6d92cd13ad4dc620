package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido.
type OrderStatus string

const (
	OrderPendingPayment    OrderStatus = "PENDING_PAYMENT"
	OrderProcessing        OrderStatus = "PROCESSING"
	OrderShipped           OrderStatus = "SHIPPED"
	OrderCompleted         OrderStatus = "COMPLETED"
	OrderCancelled         OrderStatus = "CANCELLED"
	OrderPartiallyReturned OrderStatus = "PARTIALLY_RETURNED"
	OrderReturned          OrderStatus = "RETURNED"
)

// Order cabecera del pedido; LocationID es la ubicación que despacha.
type Order struct {
	ID          string
	TenantID    string
	Number      string
	CustomerID  string
	LocationID  string
	Status      OrderStatus
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time
}

// OrderItem línea del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Lot       string
	Serial    string
}
