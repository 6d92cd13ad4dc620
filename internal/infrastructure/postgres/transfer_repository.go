package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, tenant_id, source_location_id, destination_location_id, status, notes,
	created_by, created_at, updated_at`

// TransferRepo traslados entre ubicaciones sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste la cabecera del traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `INSERT INTO inventory_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.SourceLocationID, t.DestinationLocationID, string(t.Status), t.Notes,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del traslado.
func (r *TransferRepo) CreateLine(ctx context.Context, l *entity.TransferLine) error {
	query := `
		INSERT INTO inventory_transfer_lines (id, transfer_id, product_id, quantity_requested, quantity_shipped, quantity_received)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.TransferID, l.ProductID, l.QuantityRequested, l.QuantityShipped, l.QuantityReceived,
	)
	if err != nil {
		return fmt.Errorf("insert transfer line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera del traslado en el tenant.
func (r *TransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *TransferRepo) get(ctx context.Context, query, tenantID, id string) (*entity.Transfer, error) {
	var (
		t      entity.Transfer
		status string
	)
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&t.ID, &t.TenantID, &t.SourceLocationID, &t.DestinationLocationID, &status, &t.Notes,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// ListLines líneas del traslado.
func (r *TransferRepo) ListLines(ctx context.Context, transferID string) ([]*entity.TransferLine, error) {
	query := `
		SELECT id, transfer_id, product_id, quantity_requested, quantity_shipped, quantity_received
		FROM inventory_transfer_lines WHERE transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.QuantityRequested,
			&l.QuantityShipped, &l.QuantityReceived); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update actualiza estado y notas de la cabecera.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx,
		`UPDATE inventory_transfers SET status = $3, notes = $4, updated_at = $5 WHERE tenant_id = $1 AND id = $2`,
		t.TenantID, t.ID, string(t.Status), t.Notes, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// UpdateLine actualiza las cantidades despachada y recibida de la línea.
func (r *TransferRepo) UpdateLine(ctx context.Context, l *entity.TransferLine) error {
	_, err := r.q.Exec(ctx,
		`UPDATE inventory_transfer_lines SET quantity_shipped = $2, quantity_received = $3 WHERE id = $1`,
		l.ID, l.QuantityShipped, l.QuantityReceived,
	)
	if err != nil {
		return fmt.Errorf("update transfer line: %w", err)
	}
	return nil
}
