package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/numbering"
	"github.com/jhoicas/inventario-ledger/internal/application/order"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// @title                       Inventario Ledger API
// @version                     1.0
// @description                 Ledger de inventario multi-ubicación: ajustes, traslados, conteos, pedidos y devoluciones.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    repository.Tx
		txRunner repository.TxRunner
	)
	switch cfg.Inventory.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		repos, txRunner = store.Repositories(), store
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos, txRunner = postgres.Repositories(pool), postgres.NewTxRunner(pool)
	}

	// Catálogo: lecturas de producto/ubicación pasan por Redis si está configurado.
	productRepo, locationRepo := repos.Products(), repos.Locations()
	if cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché de catálogo")
		} else {
			defer client.Close()
			catalogCache := cache.NewCatalog(client, cfg.Redis.TTL, log)
			productRepo = catalogCache.Products(productRepo)
			locationRepo = catalogCache.Locations(locationRepo)
		}
	}

	policy := inventory.NewConfigStockPolicy(cfg.Inventory.AllowNegativeStock, cfg.Inventory.NegativeStockTenants)
	catalog := inventory.NewCatalog(productRepo, locationRepo)

	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, policy, catalog, repos.Adjustments(), log)
	transferUC := inventory.NewTransferUseCase(txRunner, policy, catalog, repos.Transfers(), log)
	stockCountUC := inventory.NewStockCountUseCase(
		txRunner, policy, catalog, repos.StockCounts(), infrapdf.NewMarotoPDFGenerator(), log,
	)
	queryUC := inventory.NewQueryUseCase(catalog, repos.Balances(), repos.Transactions())
	replenishmentUC := inventory.NewReplenishmentUseCase(catalog, repos.Balances())

	orderUC := order.NewUseCase(
		txRunner, policy, catalog, repos.Balances(), repos.Orders(),
		numbering.NewGenerator("ORD", repos.Orders(), log), log,
	)
	returnUC := returns.NewUseCase(
		txRunner, policy, catalog, repos.Orders(), repos.Returns(),
		numbering.NewGenerator("RET", repos.Returns(), log), log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(productRepo),
		LocationUC:    usecase.NewLocationUseCase(locationRepo),
		Adjustments:   adjustmentUC,
		Transfers:     transferUC,
		StockCounts:   stockCountUC,
		Query:         queryUC,
		Replenishment: replenishmentUC,
		Orders:        orderUC,
		Returns:       returnUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
