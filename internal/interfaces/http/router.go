package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/production"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/sales"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog      *inventory.CatalogUseCase
	Adjust       *inventory.AdjustStockUseCase
	Alerts       *inventory.StockAlertUseCase
	Movements    *report.MovementQuery
	Production   *production.ProduceUseCase
	Sales        *sales.SaleUseCase
	SalesCreator *sales.IdempotentCreator
	Customers    *sales.CustomerUseCase
	JWTSecret    string
	AppName      string
	// SwaggerFile ruta del swagger.json; vacío no publica /docs.
	SwaggerFile string
	Log         zerolog.Logger
	// Health verifica dependencias externas (DB, Redis). nil = siempre sano.
	Health func(ctx context.Context) error
}

// NewApp crea la aplicación Fiber con los middlewares comunes y registra las rutas.
func NewApp(deps RouterDeps, readTimeout, writeTimeout time.Duration) *fiber.App {
	// Immutable: params y headers terminan en el store en memoria y en claves de idempotencia.
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler,
		Immutable:    true,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log))
	app.Use(recover.New())
	if deps.SwaggerFile != "" {
		// Swagger UI: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    deps.AppName + " API",
		}))
	}
	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				c.Locals(localError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	saleRoles := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo
	catalog := NewCatalogHandler(deps.Catalog)
	api.Post("/products", stockRoles, catalog.CreateProduct)
	api.Get("/products", anyRole, catalog.ListProducts)
	api.Get("/products/:id", anyRole, catalog.GetProduct)
	api.Post("/ingredients", stockRoles, catalog.CreateIngredient)
	api.Get("/ingredients", anyRole, catalog.ListIngredients)
	api.Post("/recipes/:productId/lines", stockRoles, catalog.AddRecipeLine)
	api.Get("/recipes/:productId/cost", anyRole, catalog.RecipeCost)

	// Inventario
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Adjust, deps.Alerts, deps.Movements)
	inv.Post("/products/:id/adjust", stockRoles, invHandler.AdjustProduct)
	inv.Post("/ingredients/:id/adjust", stockRoles, invHandler.AdjustIngredient)
	inv.Get("/products/:id/movements", anyRole, invHandler.ProductMovements)
	inv.Get("/ingredients/:id/movements", anyRole, invHandler.IngredientMovements)
	inv.Get("/alerts", anyRole, invHandler.Alerts)

	// Producción
	prod := NewProductionHandler(deps.Production)
	api.Post("/production", stockRoles, prod.Produce)
	api.Get("/production", anyRole, prod.List)

	// Clientes
	customers := NewCustomerHandler(deps.Customers)
	api.Post("/customers", saleRoles, customers.Create)
	api.Get("/customers", anyRole, customers.List)

	// Ventas
	sale := NewSaleHandler(deps.Sales, deps.SalesCreator, deps.Movements)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleRoles, sale.Create)
	salesGroup.Get("/", anyRole, sale.List)
	salesGroup.Get("/:id", anyRole, sale.Get)
	salesGroup.Put("/:id", saleRoles, sale.Update)
	salesGroup.Get("/:id/movements", anyRole, sale.Movements)
	salesGroup.Post("/:id/cancel", saleRoles, sale.Cancel)
	salesGroup.Delete("/:id", adminOnly, sale.Delete)
}
