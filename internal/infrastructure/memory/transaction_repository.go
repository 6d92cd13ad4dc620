package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type transactionRepo struct{ v *view }

func (r transactionRepo) Create(_ context.Context, txn *entity.InventoryTransaction) error {
	return r.v.write(func(st *state) error {
		st.transactions = append(st.transactions, ptr(*txn))
		return nil
	})
}

func (r transactionRepo) ListByOrder(_ context.Context, tenantID, orderID string, txType entity.TransactionType) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	err := r.v.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.TenantID == tenantID && t.Link.OrderID == orderID && t.Type == txType {
				out = append(out, ptr(*t))
			}
		}
		return nil
	})
	return out, err
}

// List devuelve el feed más reciente primero, como la consulta SQL.
func (r transactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	err := r.v.read(func(st *state) error {
		for i := len(st.transactions) - 1; i >= 0; i-- {
			t := st.transactions[i]
			if t.TenantID != f.TenantID {
				continue
			}
			if f.ProductID != "" && t.ProductID != f.ProductID {
				continue
			}
			if f.LocationID != "" && t.LocationID != f.LocationID {
				continue
			}
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			out = append(out, ptr(*t))
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}
