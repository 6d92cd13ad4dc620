package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

const (
	stockCountColumns = `id, tenant_id, location_id, type, status, notes, adjustment_id, initiated_by,
		reviewed_by, completed_by, created_at, reviewed_at, completed_at, updated_at`
	stockCountItemColumns = `id, stock_count_id, product_id, sku, product_name, snapshot_quantity, snapshot_cost,
		counted_quantity, variance_quantity, status, notes, counted_by, counted_at`
)

// StockCountRepo conteos físicos sobre PostgreSQL.
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create persiste la cabecera del conteo.
func (r *StockCountRepo) Create(ctx context.Context, sc *entity.StockCount) error {
	query := `INSERT INTO stock_counts (` + stockCountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		sc.ID, sc.TenantID, sc.LocationID, string(sc.Type), string(sc.Status), sc.Notes, nullable(sc.AdjustmentID),
		sc.InitiatedBy, sc.ReviewedBy, sc.CompletedBy, sc.CreatedAt, sc.ReviewedAt, sc.CompletedAt, sc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock count: %w", err)
	}
	return nil
}

// CreateItem persiste un ítem con su snapshot.
func (r *StockCountRepo) CreateItem(ctx context.Context, it *entity.StockCountItem) error {
	query := `INSERT INTO stock_count_items (` + stockCountItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.StockCountID, it.ProductID, it.SKU, it.ProductName, it.SnapshotQuantity, it.SnapshotCost,
		it.CountedQuantity, it.VarianceQuantity, string(it.Status), it.Notes, it.CountedBy, it.CountedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock count item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera del conteo en el tenant.
func (r *StockCountRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT `+stockCountColumns+` FROM stock_counts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *StockCountRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT `+stockCountColumns+` FROM stock_counts WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *StockCountRepo) get(ctx context.Context, query, tenantID, id string) (*entity.StockCount, error) {
	var (
		sc                entity.StockCount
		countType, status string
		adjustmentID      *string
	)
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&sc.ID, &sc.TenantID, &sc.LocationID, &countType, &status, &sc.Notes, &adjustmentID, &sc.InitiatedBy,
		&sc.ReviewedBy, &sc.CompletedBy, &sc.CreatedAt, &sc.ReviewedAt, &sc.CompletedAt, &sc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	sc.Type = entity.StockCountType(countType)
	sc.Status = entity.StockCountStatus(status)
	sc.AdjustmentID = deref(adjustmentID)
	return &sc, nil
}

// ListItems ítems del conteo ordenados por SKU (orden de la hoja de conteo).
func (r *StockCountRepo) ListItems(ctx context.Context, stockCountID string) ([]*entity.StockCountItem, error) {
	query := `SELECT ` + stockCountItemColumns + ` FROM stock_count_items WHERE stock_count_id = $1 ORDER BY sku`
	rows, err := r.q.Query(ctx, query, stockCountID)
	if err != nil {
		return nil, fmt.Errorf("list stock count items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockCountItem
	for rows.Next() {
		var (
			it     entity.StockCountItem
			status string
		)
		if err := rows.Scan(&it.ID, &it.StockCountID, &it.ProductID, &it.SKU, &it.ProductName,
			&it.SnapshotQuantity, &it.SnapshotCost, &it.CountedQuantity, &it.VarianceQuantity,
			&status, &it.Notes, &it.CountedBy, &it.CountedAt); err != nil {
			return nil, fmt.Errorf("scan stock count item: %w", err)
		}
		it.Status = entity.StockCountItemStatus(status)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update actualiza estado, responsables y ajuste generado.
func (r *StockCountRepo) Update(ctx context.Context, sc *entity.StockCount) error {
	query := `
		UPDATE stock_counts SET status = $3, notes = $4, adjustment_id = $5, reviewed_by = $6, completed_by = $7,
			reviewed_at = $8, completed_at = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		sc.TenantID, sc.ID, string(sc.Status), sc.Notes, nullable(sc.AdjustmentID), sc.ReviewedBy, sc.CompletedBy,
		sc.ReviewedAt, sc.CompletedAt, sc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock count: %w", err)
	}
	return nil
}

// UpdateItem actualiza conteo, varianza y estado del ítem. El snapshot no cambia.
func (r *StockCountRepo) UpdateItem(ctx context.Context, it *entity.StockCountItem) error {
	query := `
		UPDATE stock_count_items SET counted_quantity = $2, variance_quantity = $3, status = $4, notes = $5,
			counted_by = $6, counted_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.CountedQuantity, it.VarianceQuantity, string(it.Status), it.Notes, it.CountedBy, it.CountedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock count item: %w", err)
	}
	return nil
}
