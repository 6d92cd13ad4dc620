package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Catalog valida productos y ubicaciones del tenant antes de abrir la transacción.
// El Ledger confía en estas validaciones y no las repite.
type Catalog struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
}

// NewCatalog construye el validador. Los repositorios pueden ir envueltos en caché.
func NewCatalog(products repository.ProductRepository, locations repository.LocationRepository) *Catalog {
	return &Catalog{products: products, locations: locations}
}

// Location devuelve la ubicación si existe en el tenant y está activa.
func (c *Catalog) Location(ctx context.Context, tenantID, id string) (*entity.Location, error) {
	if id == "" {
		return nil, domain.Validation("LOCATION_REQUIRED", "la ubicación es obligatoria", nil)
	}
	loc, err := c.locations.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.NotFound("ubicación", id)
	}
	if !loc.Active {
		return nil, domain.Validation("LOCATION_INACTIVE", "la ubicación "+loc.Name+" está inactiva",
			map[string]any{"location_id": id})
	}
	return loc, nil
}

// Product devuelve el producto si existe en el tenant.
func (c *Catalog) Product(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	if id == "" {
		return nil, domain.Validation("PRODUCT_REQUIRED", "el producto es obligatorio", nil)
	}
	p, err := c.products.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	return p, nil
}

// TrackedProduct además exige que el producto controle stock.
func (c *Catalog) TrackedProduct(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	p, err := c.Product(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !p.TrackStock {
		return nil, domain.Validation("PRODUCT_NOT_TRACKED",
			"el producto "+p.SKU+" no controla inventario",
			map[string]any{"product_id": p.ID, "sku": p.SKU})
	}
	return p, nil
}

// TrackedProducts valida una lista de ids (con repetidos) y devuelve el índice por id.
func (c *Catalog) TrackedProducts(ctx context.Context, tenantID string, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := c.TrackedProduct(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

// ActiveTrackedProducts productos activos con control de stock (alcance de un conteo FULL).
func (c *Catalog) ActiveTrackedProducts(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	return c.products.ListTracked(ctx, tenantID)
}
