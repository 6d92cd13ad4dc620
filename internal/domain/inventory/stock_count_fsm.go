package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// StockCountAction acciones sobre la cabecera del conteo.
type StockCountAction string

const (
	CountEnter  StockCountAction = "enter"
	CountReview StockCountAction = "review"
	CountPost   StockCountAction = "post"
	CountCancel StockCountAction = "cancel"
)

// StockCountTransition tabla de transiciones de la cabecera.
func StockCountTransition(current entity.StockCountStatus, action StockCountAction) Decision[entity.StockCountStatus] {
	switch action {
	case CountEnter:
		switch current {
		case entity.StockCountPending:
			return allow(entity.StockCountCounting)
		case entity.StockCountCounting, entity.StockCountReview:
			return allow(current)
		}
		return block(current, "el conteo no admite captura")
	case CountReview:
		switch current {
		case entity.StockCountCounting, entity.StockCountReview:
			return allow(entity.StockCountReview)
		}
		return block(current, "solo se revisa un conteo en COUNTING o REVIEW")
	case CountPost:
		if current == entity.StockCountReview {
			return allow(entity.StockCountCompleted)
		}
		return block(current, "solo se contabiliza un conteo en REVIEW")
	case CountCancel:
		switch current {
		case entity.StockCountPending, entity.StockCountCounting, entity.StockCountReview:
			return allow(entity.StockCountCancelled)
		}
		return block(current, "el conteo ya está cerrado")
	}
	return block(current, "acción desconocida")
}

// ReviewItemTransition decide si un ítem puede pasar al estado de revisión pedido.
// Un ítem no elegible se ignora sin abortar el lote.
func ReviewItemTransition(current, target entity.StockCountItemStatus) Decision[entity.StockCountItemStatus] {
	switch target {
	case entity.CountItemApproved, entity.CountItemRecountRequested, entity.CountItemSkipped:
	default:
		return block(current, "estado de revisión inválido")
	}
	switch current {
	case entity.CountItemCounted, entity.CountItemRecountRequested:
		return allow(target)
	}
	return block(current, "el ítem no está contado")
}

// Posts solo los ítems aprobados con varianza distinta de cero generan ajuste.
func Posts(item *entity.StockCountItem) bool {
	return item.Status == entity.CountItemApproved &&
		item.VarianceQuantity != nil && !item.VarianceQuantity.IsZero()
}
