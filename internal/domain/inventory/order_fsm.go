package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// OrderAction acciones sobre un pedido que tocan el ciclo de vida.
type OrderAction string

const (
	OrderConfirm  OrderAction = "confirm"
	OrderShip     OrderAction = "ship"
	OrderComplete OrderAction = "complete"
	OrderCancel   OrderAction = "cancel"
	OrderReturn   OrderAction = "return"
)

// AllocatesStock indica si un pedido en este estado ya descontó inventario (ventas SALE).
func AllocatesStock(status entity.OrderStatus) bool {
	return status == entity.OrderProcessing
}

// OrderTransition tabla de transiciones del pedido. Para Return el estado final
// (RETURNED o PARTIALLY_RETURNED) lo decide quien procesa la devolución.
func OrderTransition(current entity.OrderStatus, action OrderAction) Decision[entity.OrderStatus] {
	switch action {
	case OrderConfirm:
		if current == entity.OrderPendingPayment {
			return allow(entity.OrderProcessing)
		}
		return block(current, "solo se confirma un pedido pendiente de pago")
	case OrderShip:
		if current == entity.OrderProcessing {
			return allow(entity.OrderShipped)
		}
		return block(current, "solo se despacha un pedido en proceso")
	case OrderComplete:
		if current == entity.OrderShipped {
			return allow(entity.OrderCompleted)
		}
		return block(current, "solo se completa un pedido despachado")
	case OrderCancel:
		switch current {
		case entity.OrderShipped, entity.OrderCompleted, entity.OrderCancelled,
			entity.OrderReturned, entity.OrderPartiallyReturned:
			return block(current, "el pedido ya salió o está cerrado")
		}
		return allow(entity.OrderCancelled)
	case OrderReturn:
		switch current {
		case entity.OrderShipped, entity.OrderCompleted, entity.OrderPartiallyReturned:
			return allow(entity.OrderPartiallyReturned)
		}
		return block(current, "solo se devuelve un pedido despachado o completado")
	}
	return block(current, "acción desconocida")
}
