package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransferAction acciones sobre un traslado.
type TransferAction string

const (
	TransferShip    TransferAction = "ship"
	TransferReceive TransferAction = "receive"
	TransferCancel  TransferAction = "cancel"
)

// TransferTransition tabla única de transiciones del traslado.
// Receive no fija el estado siguiente: lo deriva DeriveTransferStatus a partir de las cantidades.
func TransferTransition(current entity.TransferStatus, action TransferAction) Decision[entity.TransferStatus] {
	switch action {
	case TransferShip:
		if current == entity.TransferPending {
			return allow(entity.TransferInTransit)
		}
		return block(current, "solo se despacha un traslado PENDING")
	case TransferReceive:
		switch current {
		case entity.TransferInTransit:
			return allow(current)
		case entity.TransferPending:
			return block(current, "el traslado aún no se ha despachado")
		}
		return block(current, "el traslado ya está cerrado")
	case TransferCancel:
		switch current {
		case entity.TransferPending, entity.TransferInTransit:
			return allow(entity.TransferCancelled)
		}
		return block(current, "el traslado ya está cerrado")
	}
	return block(current, "acción desconocida")
}

// DeriveTransferStatus calcula el estado tras una recepción a partir de los totales de todas las líneas.
func DeriveTransferStatus(current entity.TransferStatus, totalRequested, totalReceived decimal.Decimal) entity.TransferStatus {
	if totalRequested.Sign() > 0 && totalReceived.GreaterThanOrEqual(totalRequested) {
		return entity.TransferCompleted
	}
	if totalReceived.Sign() > 0 {
		return entity.TransferInTransit
	}
	return current
}
