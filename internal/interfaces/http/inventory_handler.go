package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// InventoryHandler maneja ajustes, saldos, feed de movimientos y reposición (protegido).
type InventoryHandler struct {
	adjustments   *inventory.AdjustmentUseCase
	query         *inventory.QueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjustments *inventory.AdjustmentUseCase,
	query *inventory.QueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{adjustments: adjustments, query: query, replenishment: replenishment}
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de inventario
// @Description  Un movimiento por línea con delta distinto de cero (positivo = ADJUSTMENT_IN,
//
//	negativo = ADJUSTMENT_OUT). Todas las líneas se aplican o ninguna.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "location_id, reason_code y líneas con delta"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	lines := make([]inventory.AdjustmentLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.AdjustmentLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Lot:       l.Lot,
			Serial:    l.Serial,
		})
	}
	res, err := h.adjustments.CreateAdjustment(c.UserContext(), inventory.AdjustmentInput{
		TenantID:   GetTenantID(c),
		UserID:     GetUserID(c),
		LocationID: in.LocationID,
		ReasonCode: in.ReasonCode,
		Notes:      in.Notes,
		Lines:      lines,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAdjustmentResponse(res.Adjustment, res.Lines))
}

// GetAdjustment godoc
// @Summary      Obtener ajuste
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/{id} [get]
func (h *InventoryHandler) GetAdjustment(c *fiber.Ctx) error {
	res, err := h.adjustments.GetAdjustment(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdjustmentResponse(res.Adjustment, res.Lines))
}

// ListBalances godoc
// @Summary      Saldos de una ubicación
// @Description  Se leen siempre de la base de datos; los saldos nunca pasan por caché.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la ubicación"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.BalanceListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	list, err := h.query.ListBalances(c.UserContext(), GetTenantID(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.NewBalanceResponse(b))
	}
	return c.JSON(dto.BalanceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetBalance godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID de la ubicación"
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/balances/{product_id} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	b, err := h.query.GetBalance(c.UserContext(), GetTenantID(c), c.Params("product_id"), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBalanceResponse(b))
}

// ListTransactions godoc
// @Summary      Feed de movimientos del ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        type         query  string  false  "Tipo de movimiento"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	q := dto.TransactionQuery{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
		ProductID:   c.Query("product_id"),
		LocationID:  c.Query("location_id"),
		Type:        c.Query("type"),
	}
	if err := validateStruct(q); err != nil {
		return err
	}
	q.DefaultPage()
	list, err := h.query.ListTransactions(c.UserContext(), repository.TransactionFilter{
		TenantID:   GetTenantID(c),
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		Type:       entity.TransactionType(q.Type),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTransactionResponse(t))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos cuyo disponible (en mano - asignado) está bajo el punto de reorden,
//
//	con la cantidad sugerida para volver al stock ideal.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "ID de la ubicación"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "location_id es requerido")
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), GetTenantID(c), locationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
