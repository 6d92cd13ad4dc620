package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCountType conteo completo o cíclico (subconjunto de productos).
type StockCountType string

const (
	StockCountFull  StockCountType = "FULL"
	StockCountCycle StockCountType = "CYCLE"
)

// StockCountStatus estado de la cabecera del conteo.
type StockCountStatus string

const (
	StockCountPending   StockCountStatus = "PENDING"
	StockCountCounting  StockCountStatus = "COUNTING"
	StockCountReview    StockCountStatus = "REVIEW"
	StockCountCompleted StockCountStatus = "COMPLETED"
	StockCountCancelled StockCountStatus = "CANCELLED"
)

// StockCountItemStatus estado por ítem.
type StockCountItemStatus string

const (
	CountItemPending          StockCountItemStatus = "PENDING"
	CountItemCounted          StockCountItemStatus = "COUNTED"
	CountItemApproved         StockCountItemStatus = "APPROVED"
	CountItemRecountRequested StockCountItemStatus = "RECOUNT_REQUESTED"
	CountItemSkipped          StockCountItemStatus = "SKIPPED"
)

// StockCount cabecera del conteo físico.
type StockCount struct {
	ID           string
	TenantID     string
	LocationID   string
	Type         StockCountType
	Status       StockCountStatus
	Notes        string
	AdjustmentID string
	InitiatedBy  string
	ReviewedBy   string
	CompletedBy  string
	CreatedAt    time.Time
	ReviewedAt   *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}

// StockCountItem guarda el snapshot tomado al iniciar; la varianza se calcula contra él.
type StockCountItem struct {
	ID               string
	StockCountID     string
	ProductID        string
	SKU              string
	ProductName      string
	SnapshotQuantity decimal.Decimal
	SnapshotCost     decimal.Decimal
	CountedQuantity  *decimal.Decimal
	VarianceQuantity *decimal.Decimal
	Status           StockCountItemStatus
	Notes            string
	CountedBy        string
	CountedAt        *time.Time
}
