package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockCountHandler conteos físicos (protegido).
type StockCountHandler struct {
	uc *inventory.StockCountUseCase
}

// NewStockCountHandler construye el handler.
func NewStockCountHandler(uc *inventory.StockCountUseCase) *StockCountHandler {
	return &StockCountHandler{uc: uc}
}

func stockCountResponse(c *fiber.Ctx, status int, res *inventory.StockCountResult) error {
	return c.Status(status).JSON(dto.NewStockCountResponse(res.Count, res.Items))
}

// Initiate godoc
// @Summary      Iniciar conteo físico
// @Description  Toma el snapshot de los saldos de la ubicación. FULL incluye todos los productos
//
//	con control de stock; CYCLE solo los product_ids indicados.
//
// @Tags         stock-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitiateStockCountRequest  true  "Ubicación, tipo y productos"
// @Success      201   {object}  dto.StockCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts [post]
func (h *StockCountHandler) Initiate(c *fiber.Ctx) error {
	var in dto.InitiateStockCountRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	res, err := h.uc.InitiateStockCount(c.UserContext(), inventory.InitiateCountInput{
		TenantID:   GetTenantID(c),
		UserID:     GetUserID(c),
		LocationID: in.LocationID,
		Type:       entity.StockCountType(in.Type),
		ProductIDs: in.ProductIDs,
		Notes:      in.Notes,
	})
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusCreated, res)
}

// EnterCounts godoc
// @Summary      Capturar cantidades contadas
// @Tags         stock-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del conteo"
// @Param        body  body  dto.EnterCountRequest  true  "Cantidades por ítem"
// @Success      200   {object}  dto.StockCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id}/entries [post]
func (h *StockCountHandler) EnterCounts(c *fiber.Ctx) error {
	var in dto.EnterCountRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	entries := make([]inventory.CountEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		entries = append(entries, inventory.CountEntry{
			ItemID:          e.ItemID,
			CountedQuantity: e.CountedQuantity,
			Notes:           e.Notes,
		})
	}
	res, err := h.uc.EnterCountData(c.UserContext(), inventory.EnterCountInput{
		TenantID:     GetTenantID(c),
		UserID:       GetUserID(c),
		StockCountID: c.Params("id"),
		Entries:      entries,
	})
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusOK, res)
}

// Review godoc
// @Summary      Revisar conteo
// @Tags         stock-counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del conteo"
// @Param        body  body  dto.ReviewCountRequest  true  "Decisión por ítem"
// @Success      200   {object}  dto.StockCountResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id}/review [post]
func (h *StockCountHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewCountRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	actions := make([]inventory.ReviewAction, 0, len(in.Actions))
	for _, a := range in.Actions {
		actions = append(actions, inventory.ReviewAction{
			ItemID: a.ItemID,
			Status: entity.StockCountItemStatus(a.Status),
			Notes:  a.Notes,
		})
	}
	res, err := h.uc.ReviewStockCount(c.UserContext(), inventory.ReviewCountInput{
		TenantID:     GetTenantID(c),
		UserID:       GetUserID(c),
		StockCountID: c.Params("id"),
		Actions:      actions,
	})
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusOK, res)
}

// Post godoc
// @Summary      Contabilizar varianzas del conteo
// @Description  Genera un único ajuste STOCK_COUNT_VARIANCE con las varianzas aprobadas y cierra el conteo.
// @Tags         stock-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.StockCountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id}/post [post]
func (h *StockCountHandler) Post(c *fiber.Ctx) error {
	res, err := h.uc.PostStockCountAdjustments(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusOK, res)
}

// Cancel godoc
// @Summary      Cancelar conteo
// @Tags         stock-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.StockCountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id}/cancel [post]
func (h *StockCountHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.uc.CancelStockCount(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusOK, res)
}

// GetByID godoc
// @Summary      Obtener conteo
// @Tags         stock-counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.StockCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id} [get]
func (h *StockCountHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetStockCount(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return stockCountResponse(c, fiber.StatusOK, res)
}

// Sheet godoc
// @Summary      Hoja de conteo en PDF
// @Description  Hoja ciega para imprimir: lista SKU y producto sin la cantidad del sistema.
// @Tags         stock-counts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-counts/{id}/sheet [get]
func (h *StockCountHandler) Sheet(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.CountSheet(c.UserContext(), GetTenantID(c), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="conteo-`+id+`.pdf"`)
	return c.Send(pdf)
}
