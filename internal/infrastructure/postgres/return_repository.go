package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo devoluciones, líneas y reembolsos sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persiste la cabecera. Número repetido en el tenant devuelve domain.ErrDuplicate.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.Return) error {
	query := `
		INSERT INTO order_returns (id, tenant_id, number, order_id, location_id, status, reason, refund_total, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.TenantID, ret.Number, ret.OrderID, ret.LocationID, string(ret.Status), ret.Reason,
		ret.RefundTotal, ret.CreatedBy, ret.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// CreateItem persiste una línea devuelta.
func (r *ReturnRepo) CreateItem(ctx context.Context, it *entity.ReturnItem) error {
	query := `
		INSERT INTO order_return_items (id, return_id, order_item_id, product_id, quantity, condition, refund_amount, restocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.ReturnID, it.OrderItemID, it.ProductID, it.Quantity, string(it.Condition),
		it.RefundAmount, it.Restocked,
	)
	if err != nil {
		return fmt.Errorf("insert return item: %w", err)
	}
	return nil
}

// CreateRefund persiste el reembolso de la devolución.
func (r *ReturnRepo) CreateRefund(ctx context.Context, rf *entity.Refund) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO refunds (id, return_id, amount, method, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rf.ID, rf.ReturnID, rf.Amount, rf.Method, rf.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// GetByID obtiene la devolución del tenant.
func (r *ReturnRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Return, error) {
	query := `
		SELECT id, tenant_id, number, order_id, location_id, status, reason, refund_total, created_by, created_at
		FROM order_returns WHERE tenant_id = $1 AND id = $2`
	var (
		ret    entity.Return
		status string
	)
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&ret.ID, &ret.TenantID, &ret.Number, &ret.OrderID, &ret.LocationID, &status, &ret.Reason,
		&ret.RefundTotal, &ret.CreatedBy, &ret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	ret.Status = entity.ReturnStatus(status)
	return &ret, nil
}

// ListItems líneas de la devolución.
func (r *ReturnRepo) ListItems(ctx context.Context, returnID string) ([]*entity.ReturnItem, error) {
	query := `
		SELECT id, return_id, order_item_id, product_id, quantity, condition, refund_amount, restocked
		FROM order_return_items WHERE return_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnItem
	for rows.Next() {
		var (
			it        entity.ReturnItem
			condition string
		)
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.OrderItemID, &it.ProductID, &it.Quantity,
			&condition, &it.RefundAmount, &it.Restocked); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		it.Condition = entity.ItemCondition(condition)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ReturnedQuantities suma lo ya devuelto por línea del pedido.
func (r *ReturnRepo) ReturnedQuantities(ctx context.Context, tenantID, orderID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT ri.order_item_id, SUM(ri.quantity)
		FROM order_return_items ri
		JOIN order_returns rt ON rt.id = ri.return_id
		WHERE rt.tenant_id = $1 AND rt.order_id = $2
		GROUP BY ri.order_item_id`
	rows, err := r.q.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("returned quantities: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			itemID string
			qty    decimal.Decimal
		)
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("scan returned quantity: %w", err)
		}
		out[itemID] = qty
	}
	return out, rows.Err()
}

// CountSince devoluciones creadas por el tenant desde since.
func (r *ReturnRepo) CountSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM order_returns WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count returns: %w", err)
	}
	return n, nil
}

// NumberExists indica si el número ya fue usado en el tenant.
func (r *ReturnRepo) NumberExists(ctx context.Context, tenantID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM order_returns WHERE tenant_id = $1 AND number = $2)`,
		tenantID, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("return number exists: %w", err)
	}
	return exists, nil
}
