package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockCountRepository puerto de conteos físicos.
type StockCountRepository interface {
	Create(ctx context.Context, sc *entity.StockCount) error
	CreateItem(ctx context.Context, item *entity.StockCountItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.StockCount, error)
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.StockCount, error)
	ListItems(ctx context.Context, stockCountID string) ([]*entity.StockCountItem, error)
	Update(ctx context.Context, sc *entity.StockCount) error
	UpdateItem(ctx context.Context, item *entity.StockCountItem) error
}
