package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReturnHandler devoluciones de pedidos (protegido).
type ReturnHandler struct {
	uc *returns.UseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *returns.UseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar devolución de un pedido
// @Description  Solo las líneas en condición SELLABLE reingresan al inventario (RETURN_RESTOCK).
//
//	El reembolso se registra en la misma transacción.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.CreateReturnRequest  true  "Motivo y líneas devueltas"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	items := make([]returns.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, returns.ItemInput{
			OrderItemID:  it.OrderItemID,
			Quantity:     it.Quantity,
			Condition:    entity.ItemCondition(it.Condition),
			RefundAmount: it.RefundAmount,
		})
	}
	res, err := h.uc.CreateReturn(c.UserContext(), returns.Input{
		TenantID:     GetTenantID(c),
		UserID:       GetUserID(c),
		OrderID:      c.Params("id"),
		LocationID:   in.LocationID,
		Reason:       in.Reason,
		RefundMethod: in.RefundMethod,
		Items:        items,
	})
	if err != nil {
		return err
	}
	out := dto.NewReturnResponse(res.Return, res.Items, res.Refund)
	out.OrderStatus = string(res.OrderStatus)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	ret, items, err := h.uc.GetReturn(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReturnResponse(ret, items, nil))
}
