package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, tenant_id, product_id, location_id, type, quantity, unit_cost,
	order_id, order_item_id, adjustment_id, transfer_id, transfer_line_id,
	purchase_order_id, purchase_order_item_id, return_item_id,
	lot, serial, note, created_by, created_at`

// TransactionRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la fila inmutable del movimiento. Los vínculos vacíos se guardan como NULL.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.ProductID, t.LocationID, string(t.Type), t.Quantity, t.UnitCost,
		nullable(t.Link.OrderID), nullable(t.Link.OrderItemID), nullable(t.Link.AdjustmentID),
		nullable(t.Link.TransferID), nullable(t.Link.TransferLineID),
		nullable(t.Link.PurchaseOrderID), nullable(t.Link.PurchaseOrderItemID), nullable(t.Link.ReturnItemID),
		t.Lot, t.Serial, t.Note, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// ListByOrder movimientos del tipo dado vinculados al pedido, en orden de creación.
func (r *TransactionRepo) ListByOrder(ctx context.Context, tenantID, orderID string, txType entity.TransactionType) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions
		WHERE tenant_id = $1 AND order_id = $2 AND type = $3
		ORDER BY created_at, id`
	return r.list(ctx, query, tenantID, orderID, string(txType))
}

// List feed de auditoría filtrado, más reciente primero.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	var (
		where = []string{"tenant_id = $1"}
		args  = []any{f.TenantID}
	)
	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.ProductID != "" {
		add("product_id", f.ProductID)
	}
	if f.LocationID != "" {
		add("location_id", f.LocationID)
	}
	if f.Type != "" {
		add("type", string(f.Type))
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM inventory_transactions WHERE %s
		ORDER BY created_at DESC, id DESC LIMIT NULLIF($%d, 0) OFFSET $%d`,
		transactionColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var (
		t                                              entity.InventoryTransaction
		txType                                         string
		orderID, orderItemID, adjustmentID, transferID *string
		transferLineID, poID, poItemID, returnItemID   *string
	)
	if err := row.Scan(&t.ID, &t.TenantID, &t.ProductID, &t.LocationID, &txType, &t.Quantity, &t.UnitCost,
		&orderID, &orderItemID, &adjustmentID, &transferID, &transferLineID, &poID, &poItemID, &returnItemID,
		&t.Lot, &t.Serial, &t.Note, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(txType)
	t.Link = entity.Linkage{
		OrderID:             deref(orderID),
		OrderItemID:         deref(orderItemID),
		AdjustmentID:        deref(adjustmentID),
		TransferID:          deref(transferID),
		TransferLineID:      deref(transferLineID),
		PurchaseOrderID:     deref(poID),
		PurchaseOrderItemID: deref(poItemID),
		ReturnItemID:        deref(returnItemID),
	}
	return &t, nil
}
