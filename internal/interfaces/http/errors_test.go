package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		hideMsgs bool
	}{
		{"validación", domain.Validation("INVALID_QUANTITY", "cantidad inválida", nil), fiber.StatusBadRequest, "INVALID_QUANTITY", false},
		{"sobre-recepción", domain.OverReceipt("p1", "5", "3"), fiber.StatusBadRequest, "OVER_RECEIPT", false},
		{"no encontrado", domain.NotFound("pedido", "o1"), fiber.StatusNotFound, "NOT_FOUND", false},
		{"stock insuficiente", domain.InsufficientStock("p1", "l1", "1", "2"), fiber.StatusConflict, "INSUFFICIENT_STOCK", false},
		{"transición inválida", domain.InvalidTransition("traslado", "t1", "RECEIVED", "ship", "ya recibido"), fiber.StatusConflict, "INVALID_STATE_TRANSITION", false},
		{"uso incorrecto", domain.Usage("cantidad cero"), fiber.StatusInternalServerError, "USAGE", true},
		{"interno", domain.Internal("venta sin línea"), fiber.StatusInternalServerError, "INTERNAL", true},
		{"duplicado suelto", fmt.Errorf("crear: %w", domain.ErrDuplicate), fiber.StatusConflict, "DUPLICATE", false},
		{"sentinela envuelto", fmt.Errorf("repo: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND", false},
		{"desconocido", errors.New("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			if tt.hideMsgs {
				assert.Equal(t, "error interno del servidor", resp.Message)
				assert.Nil(t, resp.Details)
			}
		})
	}
}

func TestMapError_ConservaDetalles(t *testing.T) {
	_, resp := mapError(domain.OverReturn("item-1", "3", "2"))
	assert.Equal(t, "2", resp.Details["max_returnable"])
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "items[0].product_id", fieldPath("CreateOrderRequest.items[0].product_id"))
	assert.Equal(t, "x", fieldPath("x"))
}
