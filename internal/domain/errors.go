package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUsage             = errors.New("uso incorrecto")
	ErrInternal          = errors.New("error interno de consistencia")
)

// ErrorKind clasifica el error para que el caller decida sin inspeccionar mensajes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindUsage: precondición violada por el caller (error de programación).
	KindUsage
	// KindValidation: datos de entrada rechazados (producto/ubicación inválida, cantidades).
	KindValidation
	// KindNotFound: entidad inexistente o de otro tenant.
	KindNotFound
	// KindBusinessRule: regla de negocio (stock insuficiente, transición de estado inválida).
	KindBusinessRule
	// KindInternal: inconsistencia interna; indica un bug.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error es el error tipado del dominio. Code es estable para la API; Details lleva
// las cifras involucradas (producto, solicitado, disponible, estado actual...).
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is contra los sentinelas (ErrInsufficientStock, ErrConflict...).
func (e *Error) Unwrap() error { return e.Err }

// KindOf devuelve la clasificación del error; los sentinelas sueltos también se clasifican.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrUsage):
		return KindUsage
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicate):
		return KindValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrConflict):
		return KindBusinessRule
	case errors.Is(err, ErrInternal):
		return KindInternal
	}
	return KindUnknown
}

// AsError extrae el *Error si existe.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Usage: el caller violó una precondición (ej. movimiento con cantidad cero).
func Usage(format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Code: "USAGE", Message: fmt.Sprintf(format, args...), Err: ErrUsage}
}

// Validation: entrada rechazada; code identifica la causa.
func Validation(code, message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details, Err: ErrInvalidInput}
}

// NotFound: entidad inexistente en el tenant.
func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s no encontrado", entity, id),
		Details: map[string]any{"entity": entity, "id": id},
		Err:     ErrNotFound,
	}
}

// InsufficientStock: el movimiento dejaría el saldo por debajo de lo disponible.
func InsufficientStock(productID, locationID, available, requested string) *Error {
	return &Error{
		Kind: KindBusinessRule,
		Code: "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("stock insuficiente para el producto %s en %s: disponible %s, solicitado %s",
			productID, locationID, available, requested),
		Details: map[string]any{
			"product_id":  productID,
			"location_id": locationID,
			"available":   available,
			"requested":   requested,
		},
		Err: ErrInsufficientStock,
	}
}

// InvalidTransition: la acción no está permitida en el estado actual.
func InvalidTransition(entity, id, current, action, reason string) *Error {
	return &Error{
		Kind:    KindBusinessRule,
		Code:    "INVALID_STATE_TRANSITION",
		Message: fmt.Sprintf("%s %s: no se puede %s en estado %s (%s)", entity, id, action, current, reason),
		Details: map[string]any{"entity": entity, "id": id, "current_status": current, "action": action, "reason": reason},
		Err:     ErrConflict,
	}
}

// OverReceipt: se intenta recibir más de lo pendiente en una línea de traslado.
func OverReceipt(productID, receiving, receivable string) *Error {
	return &Error{
		Kind: KindValidation,
		Code: "OVER_RECEIPT",
		Message: fmt.Sprintf("producto %s: cantidad recibida %s excede lo pendiente por recibir %s",
			productID, receiving, receivable),
		Details: map[string]any{"product_id": productID, "quantity_received": receiving, "max_receivable": receivable},
		Err:     ErrInvalidInput,
	}
}

// OverReturn: la devolución excede lo pendiente por devolver de la línea del pedido.
func OverReturn(orderItemID, returning, returnable string) *Error {
	return &Error{
		Kind: KindValidation,
		Code: "OVER_RETURN",
		Message: fmt.Sprintf("línea %s: cantidad a devolver %s excede lo devolvible %s",
			orderItemID, returning, returnable),
		Details: map[string]any{"order_item_id": orderItemID, "quantity": returning, "max_returnable": returnable},
		Err:     ErrInvalidInput,
	}
}

// Internal: inconsistencia que indica un bug; la transacción debe abortarse.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: fmt.Sprintf(format, args...), Err: ErrInternal}
}
