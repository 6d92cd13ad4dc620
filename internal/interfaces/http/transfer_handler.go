package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// TransferHandler traslados entre ubicaciones (protegido).
type TransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Origen, destino y líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	lines := make([]inventory.TransferLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.TransferLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	res, err := h.uc.CreateTransfer(c.UserContext(), inventory.TransferInput{
		TenantID:              GetTenantID(c),
		UserID:                GetUserID(c),
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Notes:                 in.Notes,
		Lines:                 lines,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(res.Transfer, res.Lines))
}

// Ship godoc
// @Summary      Despachar traslado
// @Description  Descuenta del origen lo solicitado en cada línea (TRANSFER_OUT).
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	res, err := h.uc.ShipTransfer(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransferResponse(res.Transfer, res.Lines))
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Cantidades recibidas acumuladas por producto; las líneas omitidas conservan lo ya recibido.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ReceiveTransferRequest  true  "Cantidades recibidas"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	lines := make([]inventory.ReceiveLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.ReceiveLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Lot:       l.Lot,
			Serial:    l.Serial,
		})
	}
	res, err := h.uc.ReceiveTransfer(c.UserContext(), inventory.ReceiveInput{
		TenantID:   GetTenantID(c),
		UserID:     GetUserID(c),
		TransferID: c.Params("id"),
		Lines:      lines,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransferResponse(res.Transfer, res.Lines))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.uc.CancelTransfer(c.UserContext(), GetTenantID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransferResponse(res.Transfer, res.Lines))
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetTransfer(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransferResponse(res.Transfer, res.Lines))
}
