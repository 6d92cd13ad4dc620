package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/order"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OrderHandler pedidos y su asignación de stock (protegido).
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func orderResponse(c *fiber.Ctx, status int, res *order.Result) error {
	return c.Status(status).JSON(dto.NewOrderResponse(res.Order, res.Items))
}

// Create godoc
// @Summary      Crear pedido
// @Description  Con status PROCESSING descuenta el stock de inmediato (SALE por línea);
//
//	con PENDING_PAYMENT solo registra el pedido. Si alguna línea no tiene stock se rechaza completo.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Ubicación, estado inicial y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	items := make([]order.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, order.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Lot:       it.Lot,
			Serial:    it.Serial,
		})
	}
	res, err := h.uc.CreateOrder(c.UserContext(), order.CreateInput{
		TenantID:   GetTenantID(c),
		UserID:     GetUserID(c),
		CustomerID: in.CustomerID,
		LocationID: in.LocationID,
		Status:     entity.OrderStatus(in.Status),
		Notes:      in.Notes,
		Items:      items,
	})
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusCreated, res)
}

// Confirm godoc
// @Summary      Confirmar pago del pedido
// @Description  PENDING_PAYMENT → PROCESSING; revalida disponibilidad y descuenta el stock.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	res, err := h.uc.ConfirmOrder(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusOK, res)
}

// Ship godoc
// @Summary      Marcar pedido como enviado
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	res, err := h.uc.ShipOrder(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusOK, res)
}

// Complete godoc
// @Summary      Completar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	res, err := h.uc.CompleteOrder(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusOK, res)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Si el pedido ya había descontado stock, reintegra cada SALE con un RETURN_RESTOCK espejo.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.uc.CancelOrder(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusOK, res)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetOrder(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return orderResponse(c, fiber.StatusOK, res)
}
