package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransferLineRequest producto y cantidad a trasladar.
type TransferLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/inventory/transfers.
type CreateTransferRequest struct {
	SourceLocationID      string                `json:"source_location_id" validate:"required"`
	DestinationLocationID string                `json:"destination_location_id" validate:"required,nefield=SourceLocationID"`
	Notes                 string                `json:"notes" validate:"max=500"`
	Lines                 []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceiveLineRequest cantidad recibida de un producto del traslado.
type ReceiveLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Lot       string          `json:"lot,omitempty" validate:"max=100"`
	Serial    string          `json:"serial,omitempty" validate:"max=100"`
}

// ReceiveTransferRequest body para POST /api/inventory/transfers/:id/receive.
type ReceiveTransferRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransferLineResponse cantidades por línea.
type TransferLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityShipped   decimal.Decimal `json:"quantity_shipped"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
}

// TransferResponse traslado con sus líneas.
type TransferResponse struct {
	ID                    string                 `json:"id"`
	SourceLocationID      string                 `json:"source_location_id"`
	DestinationLocationID string                 `json:"destination_location_id"`
	Status                string                 `json:"status"`
	Notes                 string                 `json:"notes,omitempty"`
	CreatedBy             string                 `json:"created_by"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
	Lines                 []TransferLineResponse `json:"lines"`
}

func NewTransferResponse(t *entity.Transfer, lines []*entity.TransferLine) TransferResponse {
	out := TransferResponse{
		ID:                    t.ID,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		Status:                string(t.Status),
		Notes:                 t.Notes,
		CreatedBy:             t.CreatedBy,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		Lines:                 make([]TransferLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, TransferLineResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			QuantityRequested: l.QuantityRequested,
			QuantityShipped:   l.QuantityShipped,
			QuantityReceived:  l.QuantityReceived,
		})
	}
	return out
}
