package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OrderRepository puerto de pedidos; solo lo que el asignador de stock necesita.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	Update(ctx context.Context, order *entity.Order) error

	// CountSince y NumberExists alimentan el generador de números de pedido.
	CountSince(ctx context.Context, tenantID string, since time.Time) (int, error)
	NumberExists(ctx context.Context, tenantID, number string) (bool, error)
}
