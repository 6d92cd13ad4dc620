package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado del traslado; se deriva de las cantidades, no se asigna libremente.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Transfer cabecera del traslado entre dos ubicaciones del mismo tenant.
type Transfer struct {
	ID                    string
	TenantID              string
	SourceLocationID      string
	DestinationLocationID string
	Status                TransferStatus
	Notes                 string
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TransferLine QuantityShipped y QuantityReceived solo crecen y nunca superan QuantityRequested.
type TransferLine struct {
	ID                string
	TransferID        string
	ProductID         string
	QuantityRequested decimal.Decimal
	QuantityShipped   decimal.Decimal
	QuantityReceived  decimal.Decimal
}
