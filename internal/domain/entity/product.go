package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo del tenant.
// Solo los productos con TrackStock mueven el ledger; el stock vive en InventoryBalance por ubicación.
type Product struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	SKU          string          `json:"sku"` // código único por tenant
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
