package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InitiateStockCountRequest body para POST /api/inventory/stock-counts.
type InitiateStockCountRequest struct {
	LocationID string   `json:"location_id" validate:"required"`
	Type       string   `json:"type" validate:"required,oneof=FULL CYCLE"`
	ProductIDs []string `json:"product_ids" validate:"required_if=Type CYCLE,dive,required"`
	Notes      string   `json:"notes" validate:"max=500"`
}

// CountEntryRequest cantidad contada de un ítem.
type CountEntryRequest struct {
	ItemID          string          `json:"item_id" validate:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Notes           string          `json:"notes" validate:"max=300"`
}

// EnterCountRequest body para POST /api/inventory/stock-counts/:id/entries.
type EnterCountRequest struct {
	Entries []CountEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// ReviewActionRequest decisión del revisor sobre un ítem.
type ReviewActionRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=APPROVED RECOUNT_REQUESTED SKIPPED"`
	Notes  string `json:"notes" validate:"max=300"`
}

// ReviewCountRequest body para POST /api/inventory/stock-counts/:id/review.
type ReviewCountRequest struct {
	Actions []ReviewActionRequest `json:"actions" validate:"required,min=1,dive"`
}

// StockCountItemResponse ítem del conteo. Snapshot y varianza solo se exponen desde REVIEW;
// mientras se cuenta la respuesta es ciega igual que la hoja impresa.
type StockCountItemResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	SKU              string           `json:"sku"`
	ProductName      string           `json:"product_name"`
	SnapshotQuantity *decimal.Decimal `json:"snapshot_quantity,omitempty"`
	CountedQuantity  *decimal.Decimal `json:"counted_quantity,omitempty"`
	VarianceQuantity *decimal.Decimal `json:"variance_quantity,omitempty"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
}

// StockCountResponse conteo con sus ítems.
type StockCountResponse struct {
	ID           string                   `json:"id"`
	LocationID   string                   `json:"location_id"`
	Type         string                   `json:"type"`
	Status       string                   `json:"status"`
	Notes        string                   `json:"notes,omitempty"`
	AdjustmentID string                   `json:"adjustment_id,omitempty"`
	InitiatedBy  string                   `json:"initiated_by"`
	ReviewedBy   string                   `json:"reviewed_by,omitempty"`
	CompletedBy  string                   `json:"completed_by,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`
	Items        []StockCountItemResponse `json:"items"`
}

func NewStockCountResponse(sc *entity.StockCount, items []*entity.StockCountItem) StockCountResponse {
	out := StockCountResponse{
		ID:           sc.ID,
		LocationID:   sc.LocationID,
		Type:         string(sc.Type),
		Status:       string(sc.Status),
		Notes:        sc.Notes,
		AdjustmentID: sc.AdjustmentID,
		InitiatedBy:  sc.InitiatedBy,
		ReviewedBy:   sc.ReviewedBy,
		CompletedBy:  sc.CompletedBy,
		CreatedAt:    sc.CreatedAt,
		CompletedAt:  sc.CompletedAt,
		Items:        make([]StockCountItemResponse, 0, len(items)),
	}
	reveal := sc.Status == entity.StockCountReview || sc.Status == entity.StockCountCompleted
	for _, it := range items {
		item := StockCountItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			SKU:             it.SKU,
			ProductName:     it.ProductName,
			CountedQuantity: it.CountedQuantity,
			Status:          string(it.Status),
			Notes:           it.Notes,
		}
		if reveal {
			snapshot := it.SnapshotQuantity
			item.SnapshotQuantity = &snapshot
			item.VarianceQuantity = it.VarianceQuantity
		}
		out.Items = append(out.Items, item)
	}
	return out
}
