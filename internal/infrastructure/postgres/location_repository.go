package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (id, tenant_id, name, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.TenantID, location.Name, location.Address, location.Active,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación del tenant por ID.
func (r *LocationRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Location, error) {
	query := `
		SELECT id, tenant_id, name, address, active, created_at, updated_at
		FROM locations WHERE tenant_id = $1 AND id = $2`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&l.ID, &l.TenantID, &l.Name, &l.Address, &l.Active, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// ListByTenant lista ubicaciones del tenant con paginación.
func (r *LocationRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, tenant_id, name, address, active, created_at, updated_at
		FROM locations WHERE tenant_id = $1 ORDER BY name LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.TenantID, &l.Name, &l.Address, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
