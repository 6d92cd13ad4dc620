package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// QueryUseCase lecturas del lado de consulta: saldos por ubicación y feed de movimientos.
type QueryUseCase struct {
	catalog      *Catalog
	balances     repository.BalanceRepository
	transactions repository.TransactionRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(catalog *Catalog, balances repository.BalanceRepository, transactions repository.TransactionRepository) *QueryUseCase {
	return &QueryUseCase{catalog: catalog, balances: balances, transactions: transactions}
}

// ListBalances saldos de una ubicación (paginado).
func (uc *QueryUseCase) ListBalances(ctx context.Context, tenantID, locationID string, limit, offset int) ([]*entity.InventoryBalance, error) {
	if _, err := uc.catalog.Location(ctx, tenantID, locationID); err != nil {
		return nil, err
	}
	return uc.balances.ListByLocation(ctx, tenantID, locationID, limit, offset)
}

// GetBalance saldo de un producto en una ubicación; cero si aún no hubo movimientos.
func (uc *QueryUseCase) GetBalance(ctx context.Context, tenantID, productID, locationID string) (*entity.InventoryBalance, error) {
	if _, err := uc.catalog.Product(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.Location(ctx, tenantID, locationID); err != nil {
		return nil, err
	}
	b, err := uc.balances.Get(ctx, tenantID, productID, locationID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = &entity.InventoryBalance{TenantID: tenantID, ProductID: productID, LocationID: locationID}
	}
	return b, nil
}

// ListTransactions feed de auditoría, más reciente primero.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	if filter.TenantID == "" {
		return nil, domain.Usage("feed de movimientos sin tenant")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.Validation("INVALID_TRANSACTION_TYPE", "tipo de movimiento inválido",
			map[string]any{"type": string(filter.Type)})
	}
	return uc.transactions.List(ctx, filter)
}
