package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	UnitMeasure  string          `json:"unit_measure" validate:"required,max=20"`
	TrackStock   *bool           `json:"track_stock"`
}

// UpdateProductRequest campos opcionales a actualizar; el costo promedio no se edita.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
	UnitMeasure  *string          `json:"unit_measure,omitempty" validate:"omitempty,max=20"`
	TrackStock   *bool            `json:"track_stock,omitempty"`
	Active       *bool            `json:"active,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	UnitMeasure  string          `json:"unit_measure"`
	TrackStock   bool            `json:"track_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateLocationRequest entrada para crear una tienda o bodega.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		SKU:          p.SKU,
		Name:         p.Name,
		Price:        p.Price,
		Cost:         p.Cost,
		ReorderPoint: p.ReorderPoint,
		UnitMeasure:  p.UnitMeasure,
		TrackStock:   p.TrackStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		TenantID:  l.TenantID,
		Name:      l.Name,
		Address:   l.Address,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
