package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReturnRepository puerto de devoluciones, sus líneas y reembolsos.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	CreateItem(ctx context.Context, item *entity.ReturnItem) error
	CreateRefund(ctx context.Context, refund *entity.Refund) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Return, error)
	ListItems(ctx context.Context, returnID string) ([]*entity.ReturnItem, error)
	// ReturnedQuantities suma lo ya devuelto por línea de pedido (clave: order_item_id).
	ReturnedQuantities(ctx context.Context, tenantID, orderID string) (map[string]decimal.Decimal, error)

	CountSince(ctx context.Context, tenantID string, since time.Time) (int, error)
	NumberExists(ctx context.Context, tenantID, number string) (bool, error)
}
