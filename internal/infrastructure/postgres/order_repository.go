package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, tenant_id, number, customer_id, location_id, status, subtotal, total, notes,
	created_by, created_at, updated_at, cancelled_at`

// OrderRepo pedidos y sus líneas sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera. Número repetido en el tenant devuelve domain.ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.Number, o.CustomerID, o.LocationID, string(o.Status), o.Subtotal, o.Total, o.Notes,
		o.CreatedBy, o.CreatedAt, o.UpdatedAt, o.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal, lot, serial)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.Lot, it.Serial,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido del tenant.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetByIDForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *OrderRepo) get(ctx context.Context, query, tenantID, id string) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
	)
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&o.ID, &o.TenantID, &o.Number, &o.CustomerID, &o.LocationID, &status, &o.Subtotal, &o.Total, &o.Notes,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// ListItems líneas del pedido.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal, lot, serial
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Subtotal, &it.Lot, &it.Serial); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update actualiza estado, totales y fecha de cancelación.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $3, subtotal = $4, total = $5, notes = $6, updated_at = $7, cancelled_at = $8
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		o.TenantID, o.ID, string(o.Status), o.Subtotal, o.Total, o.Notes, o.UpdatedAt, o.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// CountSince pedidos creados por el tenant desde since (consecutivo diario).
func (r *OrderRepo) CountSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// NumberExists indica si el número ya fue usado en el tenant.
func (r *OrderRepo) NumberExists(ctx context.Context, tenantID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE tenant_id = $1 AND number = $2)`,
		tenantID, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("order number exists: %w", err)
	}
	return exists, nil
}
