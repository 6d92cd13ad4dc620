package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Los encabezados de documentos no tienen bloqueo de fila: la transacción del store ya es exclusiva.

type adjustmentRepo struct{ v *view }

func (r adjustmentRepo) Create(_ context.Context, a *entity.Adjustment) error {
	return r.v.write(func(st *state) error {
		st.adjustments[a.ID] = ptr(*a)
		return nil
	})
}

func (r adjustmentRepo) CreateLine(_ context.Context, l *entity.AdjustmentLine) error {
	return r.v.write(func(st *state) error {
		st.adjustmentLines[l.AdjustmentID] = append(st.adjustmentLines[l.AdjustmentID], ptr(*l))
		return nil
	})
}

func (r adjustmentRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Adjustment, error) {
	var out *entity.Adjustment
	err := r.v.read(func(st *state) error {
		if a, ok := st.adjustments[id]; ok && a.TenantID == tenantID {
			out = ptr(*a)
		}
		return nil
	})
	return out, err
}

func (r adjustmentRepo) ListLines(_ context.Context, adjustmentID string) ([]*entity.AdjustmentLine, error) {
	var out []*entity.AdjustmentLine
	err := r.v.read(func(st *state) error {
		out = cloneSlice(st.adjustmentLines[adjustmentID])
		return nil
	})
	return out, err
}

type transferRepo struct{ v *view }

func (r transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.v.write(func(st *state) error {
		st.transfers[t.ID] = ptr(*t)
		return nil
	})
}

func (r transferRepo) CreateLine(_ context.Context, l *entity.TransferLine) error {
	return r.v.write(func(st *state) error {
		st.transferLines[l.TransferID] = append(st.transferLines[l.TransferID], ptr(*l))
		return nil
	})
}

func (r transferRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.v.read(func(st *state) error {
		if t, ok := st.transfers[id]; ok && t.TenantID == tenantID {
			out = ptr(*t)
		}
		return nil
	})
	return out, err
}

func (r transferRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r transferRepo) ListLines(_ context.Context, transferID string) ([]*entity.TransferLine, error) {
	var out []*entity.TransferLine
	err := r.v.read(func(st *state) error {
		out = cloneSlice(st.transferLines[transferID])
		return nil
	})
	return out, err
}

func (r transferRepo) Update(_ context.Context, t *entity.Transfer) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.transfers[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.transfers[t.ID] = ptr(*t)
		return nil
	})
}

func (r transferRepo) UpdateLine(_ context.Context, l *entity.TransferLine) error {
	return r.v.write(func(st *state) error {
		lines := st.transferLines[l.TransferID]
		for i := range lines {
			if lines[i].ID == l.ID {
				lines[i] = ptr(*l)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

type stockCountRepo struct{ v *view }

func (r stockCountRepo) Create(_ context.Context, sc *entity.StockCount) error {
	return r.v.write(func(st *state) error {
		st.counts[sc.ID] = ptr(*sc)
		return nil
	})
}

func (r stockCountRepo) CreateItem(_ context.Context, it *entity.StockCountItem) error {
	return r.v.write(func(st *state) error {
		st.countItems[it.StockCountID] = append(st.countItems[it.StockCountID], ptr(*it))
		return nil
	})
}

func (r stockCountRepo) GetByID(_ context.Context, tenantID, id string) (*entity.StockCount, error) {
	var out *entity.StockCount
	err := r.v.read(func(st *state) error {
		if sc, ok := st.counts[id]; ok && sc.TenantID == tenantID {
			out = ptr(*sc)
		}
		return nil
	})
	return out, err
}

func (r stockCountRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.StockCount, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r stockCountRepo) ListItems(_ context.Context, stockCountID string) ([]*entity.StockCountItem, error) {
	var out []*entity.StockCountItem
	err := r.v.read(func(st *state) error {
		out = cloneSlice(st.countItems[stockCountID])
		return nil
	})
	return out, err
}

func (r stockCountRepo) Update(_ context.Context, sc *entity.StockCount) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.counts[sc.ID]; !ok {
			return domain.ErrNotFound
		}
		st.counts[sc.ID] = ptr(*sc)
		return nil
	})
}

func (r stockCountRepo) UpdateItem(_ context.Context, it *entity.StockCountItem) error {
	return r.v.write(func(st *state) error {
		items := st.countItems[it.StockCountID]
		for i := range items {
			if items[i].ID == it.ID {
				items[i] = ptr(*it)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

type orderRepo struct{ v *view }

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.orders {
			if existing.TenantID == o.TenantID && existing.Number == o.Number {
				return domain.ErrDuplicate
			}
		}
		st.orders[o.ID] = ptr(*o)
		return nil
	})
}

func (r orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	return r.v.write(func(st *state) error {
		st.orderItems[it.OrderID] = append(st.orderItems[it.OrderID], ptr(*it))
		return nil
	})
}

func (r orderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.read(func(st *state) error {
		if o, ok := st.orders[id]; ok && o.TenantID == tenantID {
			out = ptr(*o)
		}
		return nil
	})
	return out, err
}

func (r orderRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r orderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.v.read(func(st *state) error {
		out = cloneSlice(st.orderItems[orderID])
		return nil
	})
	return out, err
}

func (r orderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return domain.ErrNotFound
		}
		st.orders[o.ID] = ptr(*o)
		return nil
	})
}

func (r orderRepo) CountSince(_ context.Context, tenantID string, since time.Time) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, o := range st.orders {
			if o.TenantID == tenantID && !o.CreatedAt.Before(since) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r orderRepo) NumberExists(_ context.Context, tenantID, number string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, o := range st.orders {
			if o.TenantID == tenantID && o.Number == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

type returnRepo struct{ v *view }

func (r returnRepo) Create(_ context.Context, ret *entity.Return) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.returns {
			if existing.TenantID == ret.TenantID && existing.Number == ret.Number {
				return domain.ErrDuplicate
			}
		}
		st.returns[ret.ID] = ptr(*ret)
		return nil
	})
}

func (r returnRepo) CreateItem(_ context.Context, it *entity.ReturnItem) error {
	return r.v.write(func(st *state) error {
		st.returnItems[it.ReturnID] = append(st.returnItems[it.ReturnID], ptr(*it))
		return nil
	})
}

func (r returnRepo) CreateRefund(_ context.Context, rf *entity.Refund) error {
	return r.v.write(func(st *state) error {
		st.refunds[rf.ReturnID] = append(st.refunds[rf.ReturnID], ptr(*rf))
		return nil
	})
}

func (r returnRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Return, error) {
	var out *entity.Return
	err := r.v.read(func(st *state) error {
		if ret, ok := st.returns[id]; ok && ret.TenantID == tenantID {
			out = ptr(*ret)
		}
		return nil
	})
	return out, err
}

func (r returnRepo) ListItems(_ context.Context, returnID string) ([]*entity.ReturnItem, error) {
	var out []*entity.ReturnItem
	err := r.v.read(func(st *state) error {
		out = cloneSlice(st.returnItems[returnID])
		return nil
	})
	return out, err
}

func (r returnRepo) ReturnedQuantities(_ context.Context, tenantID, orderID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	err := r.v.read(func(st *state) error {
		for id, ret := range st.returns {
			if ret.TenantID != tenantID || ret.OrderID != orderID {
				continue
			}
			for _, it := range st.returnItems[id] {
				out[it.OrderItemID] = out[it.OrderItemID].Add(it.Quantity)
			}
		}
		return nil
	})
	return out, err
}

func (r returnRepo) CountSince(_ context.Context, tenantID string, since time.Time) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, ret := range st.returns {
			if ret.TenantID == tenantID && !ret.CreatedAt.Before(since) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r returnRepo) NumberExists(_ context.Context, tenantID, number string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, ret := range st.returns {
			if ret.TenantID == tenantID && ret.Number == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}
