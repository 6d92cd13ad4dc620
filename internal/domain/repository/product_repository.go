package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe en el tenant.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetByTenantAndSKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	// ListTracked devuelve los productos activos con control de stock (base del conteo FULL).
	ListTracked(ctx context.Context, tenantID string) ([]*entity.Product, error)
}
