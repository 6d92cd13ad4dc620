package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter filtros del feed de auditoría. Campos vacíos no filtran.
type TransactionFilter struct {
	TenantID   string
	ProductID  string
	LocationID string
	Type       entity.TransactionType
	Limit      int
	Offset     int
}

// TransactionRepository puerto del ledger append-only. No existe Update ni Delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.InventoryTransaction) error
	// ListByOrder devuelve los movimientos del tipo dado vinculados al pedido, en orden de creación.
	ListByOrder(ctx context.Context, tenantID, orderID string, txType entity.TransactionType) ([]*entity.InventoryTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.InventoryTransaction, error)
}
