package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de motivo usados por el sistema.
const (
	ReasonStockCountVariance = "STOCK_COUNT_VARIANCE"
)

// Adjustment cabecera de un ajuste manual de inventario en una ubicación.
type Adjustment struct {
	ID         string
	TenantID   string
	LocationID string
	ReasonCode string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}

// AdjustmentLine una por cada par producto/delta efectivamente movido.
type AdjustmentLine struct {
	ID            string
	AdjustmentID  string
	ProductID     string
	Quantity      decimal.Decimal // delta con signo
	UnitCost      *decimal.Decimal
	Lot           string
	Serial        string
	TransactionID string
}
