package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo ajustes manuales y sus líneas sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste la cabecera del ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	query := `
		INSERT INTO inventory_adjustments (id, tenant_id, location_id, reason_code, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		adj.ID, adj.TenantID, adj.LocationID, adj.ReasonCode, adj.Notes, adj.CreatedBy, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// CreateLine persiste una línea ya registrada en el ledger.
func (r *AdjustmentRepo) CreateLine(ctx context.Context, line *entity.AdjustmentLine) error {
	query := `
		INSERT INTO inventory_adjustment_lines (id, adjustment_id, product_id, quantity, unit_cost, lot, serial, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.AdjustmentID, line.ProductID, line.Quantity, line.UnitCost,
		line.Lot, line.Serial, line.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera del ajuste en el tenant.
func (r *AdjustmentRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Adjustment, error) {
	query := `
		SELECT id, tenant_id, location_id, reason_code, notes, created_by, created_at
		FROM inventory_adjustments WHERE tenant_id = $1 AND id = $2`
	var a entity.Adjustment
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&a.ID, &a.TenantID, &a.LocationID, &a.ReasonCode, &a.Notes, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return &a, nil
}

// ListLines líneas del ajuste.
func (r *AdjustmentRepo) ListLines(ctx context.Context, adjustmentID string) ([]*entity.AdjustmentLine, error) {
	query := `
		SELECT id, adjustment_id, product_id, quantity, unit_cost, lot, serial, transaction_id
		FROM inventory_adjustment_lines WHERE adjustment_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("list adjustment lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdjustmentLine
	for rows.Next() {
		var l entity.AdjustmentLine
		if err := rows.Scan(&l.ID, &l.AdjustmentID, &l.ProductID, &l.Quantity, &l.UnitCost,
			&l.Lot, &l.Serial, &l.TransactionID); err != nil {
			return nil, fmt.Errorf("scan adjustment line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
