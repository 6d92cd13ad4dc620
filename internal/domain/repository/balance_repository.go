package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReplenishmentItem resultado crudo del repositorio para un producto bajo reorden.
type ReplenishmentItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	OnHand       decimal.Decimal
	Allocated    decimal.Decimal
	ReorderPoint decimal.Decimal
	AverageCost  decimal.Decimal
	Price        decimal.Decimal
}

// BalanceRepository puerto de los saldos por (tenant, producto, ubicación).
type BalanceRepository interface {
	// Increment suma delta a quantity_on_hand en una sola operación atómica (upsert-increment)
	// y devuelve el saldo resultante. Si delta > 0 y unitCost != nil, el costo promedio se
	// recalcula en la misma sentencia. Nunca lee-y-escribe desde la aplicación.
	Increment(ctx context.Context, tenantID, productID, locationID string, delta decimal.Decimal, unitCost *decimal.Decimal) (*entity.InventoryBalance, error)
	// Get devuelve (nil, nil) si aún no hubo movimientos para la terna.
	Get(ctx context.Context, tenantID, productID, locationID string) (*entity.InventoryBalance, error)
	ListByLocation(ctx context.Context, tenantID, locationID string, limit, offset int) ([]*entity.InventoryBalance, error)
	// ListBelowReorderPoint devuelve los productos cuyo disponible (en mano - asignado) en la
	// ubicación es inferior a su punto de reorden, mayor déficit primero.
	ListBelowReorderPoint(ctx context.Context, tenantID, locationID string) ([]ReplenishmentItem, error)
}
