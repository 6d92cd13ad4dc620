package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/order"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
)

// Roles reconocidos en el claim "role" del JWT.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	LocationUC    *usecase.LocationUseCase
	Adjustments   *inventory.AdjustmentUseCase
	Transfers     *inventory.TransferUseCase
	StockCounts   *inventory.StockCountUseCase
	Query         *inventory.QueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Orders        *order.UseCase
	Returns       *returns.UseCase
	JWTSecret     string
	JWTIssuer     string // vacío = no se verifica el emisor
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las mutaciones
// además exigen rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	stockRoles := RequireRole(RoleAdmin, RoleBodeguero)
	salesRoles := RequireRole(RoleAdmin, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)

	inventoryHandler := NewInventoryHandler(deps.Adjustments, deps.Query, deps.Replenishment)

	locationHandler := NewLocationHandler(deps.LocationUC)
	locations := api.Group("/locations")
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Get("/:id/balances", inventoryHandler.ListBalances)
	locations.Get("/:id/balances/:product_id", inventoryHandler.GetBalance)

	// Inventario
	inv := api.Group("/inventory")
	inv.Get("/transactions", inventoryHandler.ListTransactions)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	inv.Post("/adjustments", stockRoles, inventoryHandler.CreateAdjustment)
	inv.Get("/adjustments/:id", inventoryHandler.GetAdjustment)

	transferHandler := NewTransferHandler(deps.Transfers)
	transfers := inv.Group("/transfers")
	transfers.Post("/", stockRoles, transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/ship", stockRoles, transferHandler.Ship)
	transfers.Post("/:id/receive", stockRoles, transferHandler.Receive)
	transfers.Post("/:id/cancel", stockRoles, transferHandler.Cancel)

	countHandler := NewStockCountHandler(deps.StockCounts)
	counts := inv.Group("/stock-counts")
	counts.Post("/", stockRoles, countHandler.Initiate)
	counts.Get("/:id", countHandler.GetByID)
	counts.Get("/:id/sheet", stockRoles, countHandler.Sheet)
	counts.Post("/:id/entries", stockRoles, countHandler.EnterCounts)
	counts.Post("/:id/review", adminOnly, countHandler.Review)
	counts.Post("/:id/post", adminOnly, countHandler.Post)
	counts.Post("/:id/cancel", adminOnly, countHandler.Cancel)

	// Pedidos y devoluciones
	orderHandler := NewOrderHandler(deps.Orders)
	returnHandler := NewReturnHandler(deps.Returns)
	orders := api.Group("/orders")
	orders.Post("/", salesRoles, orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/confirm", salesRoles, orderHandler.Confirm)
	orders.Post("/:id/ship", stockRoles, orderHandler.Ship)
	orders.Post("/:id/complete", salesRoles, orderHandler.Complete)
	orders.Post("/:id/cancel", salesRoles, orderHandler.Cancel)
	orders.Post("/:id/returns", salesRoles, returnHandler.Create)

	api.Get("/returns/:id", returnHandler.GetByID)
}
