package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type balanceRepo struct{ v *view }

// Increment aplica el delta sobre la fila (o la crea). La transacción está serializada por el
// store, así que el incremento es atómico respecto a cualquier otra transacción.
func (r balanceRepo) Increment(_ context.Context, tenantID, productID, locationID string, delta decimal.Decimal, unitCost *decimal.Decimal) (*entity.InventoryBalance, error) {
	var out *entity.InventoryBalance
	err := r.v.write(func(st *state) error {
		now := time.Now()
		key := balanceKey{tenantID, productID, locationID}
		b, ok := st.balances[key]
		if !ok {
			b = &entity.InventoryBalance{
				ID:                uuid.New().String(),
				TenantID:          tenantID,
				ProductID:         productID,
				LocationID:        locationID,
				QuantityOnHand:    decimal.Zero,
				QuantityAllocated: decimal.Zero,
				QuantityIncoming:  decimal.Zero,
				AverageCost:       decimal.Zero,
				CreatedAt:         now,
			}
			st.balances[key] = b
		}
		if unitCost != nil && delta.IsPositive() {
			b.AverageCost = inventory.CostCalculator(b.QuantityOnHand, b.AverageCost, delta, *unitCost)
		}
		b.QuantityOnHand = inventory.Normalize(b.QuantityOnHand.Add(delta))
		b.UpdatedAt = now
		out = ptr(*b)
		return nil
	})
	return out, err
}

func (r balanceRepo) Get(_ context.Context, tenantID, productID, locationID string) (*entity.InventoryBalance, error) {
	var out *entity.InventoryBalance
	err := r.v.read(func(st *state) error {
		if b, ok := st.balances[balanceKey{tenantID, productID, locationID}]; ok {
			out = ptr(*b)
		}
		return nil
	})
	return out, err
}

func (r balanceRepo) ListByLocation(_ context.Context, tenantID, locationID string, limit, offset int) ([]*entity.InventoryBalance, error) {
	var out []*entity.InventoryBalance
	err := r.v.read(func(st *state) error {
		for k, b := range st.balances {
			if k.tenantID == tenantID && k.locationID == locationID {
				out = append(out, ptr(*b))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return page(out, limit, offset), err
}

func (r balanceRepo) ListBelowReorderPoint(_ context.Context, tenantID, locationID string) ([]repository.ReplenishmentItem, error) {
	var out []repository.ReplenishmentItem
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.TenantID != tenantID || !p.Active || !p.TrackStock || !p.ReorderPoint.IsPositive() {
				continue
			}
			item := repository.ReplenishmentItem{
				ProductID:    p.ID,
				SKU:          p.SKU,
				ProductName:  p.Name,
				OnHand:       decimal.Zero,
				Allocated:    decimal.Zero,
				ReorderPoint: p.ReorderPoint,
				AverageCost:  p.Cost,
				Price:        p.Price,
			}
			if b, ok := st.balances[balanceKey{tenantID, p.ID, locationID}]; ok {
				item.OnHand = b.QuantityOnHand
				item.Allocated = b.QuantityAllocated
				item.AverageCost = b.AverageCost
			}
			if item.OnHand.Sub(item.Allocated).LessThan(p.ReorderPoint) {
				out = append(out, item)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		di := out[i].ReorderPoint.Sub(out[i].OnHand.Sub(out[i].Allocated))
		dj := out[j].ReorderPoint.Sub(out[j].OnHand.Sub(out[j].Allocated))
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].SKU < out[j].SKU
	})
	return out, err
}
