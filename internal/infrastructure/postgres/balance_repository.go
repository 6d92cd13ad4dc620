package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const balanceColumns = `id, tenant_id, product_id, location_id, quantity_on_hand, quantity_allocated,
	quantity_incoming, average_cost, created_at, updated_at`

// BalanceRepo saldos por (tenant, producto, ubicación) sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Increment upsert-increment en una sola sentencia: la fila queda bloqueada por el UPDATE
// hasta el fin de la transacción, así dos movimientos concurrentes sobre la misma terna nunca
// pierden un delta. El costo promedio ponderado se recalcula en la misma sentencia cuando
// llega unitCost (solo entradas); con stock previo <= 0 el costo de entrada lo reemplaza.
func (r *BalanceRepo) Increment(
	ctx context.Context,
	tenantID, productID, locationID string,
	delta decimal.Decimal,
	unitCost *decimal.Decimal,
) (*entity.InventoryBalance, error) {
	query := `
		INSERT INTO inventory_balances AS b (id, tenant_id, product_id, location_id, quantity_on_hand, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::numeric, 0), now(), now())
		ON CONFLICT (tenant_id, product_id, location_id) DO UPDATE SET
			quantity_on_hand = b.quantity_on_hand + EXCLUDED.quantity_on_hand,
			average_cost = CASE
				WHEN $6::numeric IS NULL THEN b.average_cost
				WHEN b.quantity_on_hand <= 0 THEN $6::numeric
				WHEN b.quantity_on_hand + EXCLUDED.quantity_on_hand <= 0 THEN 0
				ELSE ROUND((b.quantity_on_hand * b.average_cost + EXCLUDED.quantity_on_hand * $6::numeric)
					/ (b.quantity_on_hand + EXCLUDED.quantity_on_hand), 4)
			END,
			updated_at = now()
		RETURNING ` + balanceColumns
	b, err := scanBalance(r.q.QueryRow(ctx, query, uuid.New().String(), tenantID, productID, locationID, delta, unitCost))
	if err != nil {
		return nil, fmt.Errorf("increment balance: %w", err)
	}
	return b, nil
}

// Get devuelve (nil, nil) si aún no hubo movimientos para la terna.
func (r *BalanceRepo) Get(ctx context.Context, tenantID, productID, locationID string) (*entity.InventoryBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM inventory_balances
		WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3`
	b, err := scanBalance(r.q.QueryRow(ctx, query, tenantID, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// ListByLocation saldos de una ubicación, paginados.
func (r *BalanceRepo) ListByLocation(ctx context.Context, tenantID, locationID string, limit, offset int) ([]*entity.InventoryBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM inventory_balances
		WHERE tenant_id = $1 AND location_id = $2
		ORDER BY product_id LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListBelowReorderPoint productos activos con control de stock cuyo disponible en la ubicación
// está bajo el punto de reorden. Sin fila de saldo el disponible es cero.
func (r *BalanceRepo) ListBelowReorderPoint(ctx context.Context, tenantID, locationID string) ([]repository.ReplenishmentItem, error) {
	query := `
		SELECT p.id, p.sku, p.name,
			COALESCE(b.quantity_on_hand, 0), COALESCE(b.quantity_allocated, 0),
			p.reorder_point, COALESCE(b.average_cost, p.cost), p.price
		FROM products p
		LEFT JOIN inventory_balances b
			ON b.tenant_id = p.tenant_id AND b.product_id = p.id AND b.location_id = $2
		WHERE p.tenant_id = $1 AND p.active AND p.track_stock AND p.reorder_point > 0
			AND COALESCE(b.quantity_on_hand, 0) - COALESCE(b.quantity_allocated, 0) < p.reorder_point
		ORDER BY p.reorder_point - (COALESCE(b.quantity_on_hand, 0) - COALESCE(b.quantity_allocated, 0)) DESC, p.sku`
	rows, err := r.q.Query(ctx, query, tenantID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list below reorder point: %w", err)
	}
	defer rows.Close()
	var items []repository.ReplenishmentItem
	for rows.Next() {
		var it repository.ReplenishmentItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.OnHand, &it.Allocated,
			&it.ReorderPoint, &it.AverageCost, &it.Price); err != nil {
			return nil, fmt.Errorf("scan replenishment item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanBalance(row pgx.Row) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	if err := row.Scan(&b.ID, &b.TenantID, &b.ProductID, &b.LocationID, &b.QuantityOnHand,
		&b.QuantityAllocated, &b.QuantityIncoming, &b.AverageCost, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
