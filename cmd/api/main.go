package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/demo"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/application/production"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/sales"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/jwt"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

const devJWTSecret = "dev-secret-change-me"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = devJWTSecret
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	ctx := context.Background()

	var (
		tx     ports.TxRunner
		health func(context.Context) error
		store  *memory.Store
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store = memory.NewStore()
		tx = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx = postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log.Component("tx"))
		health = pool.Ping
	}

	var idem ports.IdempotencyStore
	if cfg.Redis.URL != "" {
		rs, err := cache.NewRedisIdempotencyStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		idem = rs
		health = withCheck(health, rs.Ping)
	} else {
		log.Warn().Msg("REDIS_URL vacío, claves de idempotencia en memoria (no se comparten entre instancias)")
		idem = cache.NewInMemoryIdempotencyStore()
	}

	recorder := audit.NewRecorder(log.Component("audit"), cfg.Audit.Strict)
	ledger := inventory.NewStockLedger(tx)
	recipes := inventory.NewRecipeEngine(ledger)
	saleUC := sales.NewSaleUseCase(tx, ledger, recipes, recorder)

	if store != nil {
		seedDemo(ctx, log, cfg, tx, ledger)
	}

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		Catalog:      inventory.NewCatalogUseCase(tx, recipes),
		Adjust:       inventory.NewAdjustStockUseCase(tx, ledger, recorder),
		Alerts:       inventory.NewStockAlertUseCase(tx),
		Movements:    report.NewMovementQuery(tx),
		Production:   production.NewProduceUseCase(tx, ledger, recipes, recorder),
		Sales:        saleUC,
		SalesCreator: sales.NewIdempotentCreator(saleUC, idem, cfg.Redis.IdempotencyTTL, log.Component("idempotency")),
		Customers:    sales.NewCustomerUseCase(tx),
		JWTSecret:    cfg.JWT.Secret,
		AppName:      cfg.App.Name,
		SwaggerFile:  cfg.HTTP.SwaggerFile,
		Log:          log.Component("http"),
		Health:       health,
	}, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

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

// seedDemo carga el catálogo demo en el modo memoria e imprime un token por rol.
func seedDemo(ctx context.Context, log *logger.Logger, cfg *config.Config, tx ports.TxRunner, ledger *inventory.StockLedger) {
	cat, err := demo.Seed(ctx, tx, ledger, "Cafetería Demo")
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo demo")
	}
	ev := log.Info().Str("company_id", cat.CompanyID)
	for sku, id := range cat.Products {
		ev = ev.Str("product_"+sku, id)
	}
	ev.Msg("catálogo demo cargado")

	ttl := time.Duration(cfg.JWT.Expiration) * time.Minute
	for _, role := range []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor} {
		tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: "demo-" + role, CompanyID: cat.CompanyID, Role: role}, cfg.JWT.Issuer, ttl)
		if err != nil {
			log.Fatal().Err(err).Msg("token demo")
		}
		log.Info().Str("role", role).Str("token", tok).Msg("token demo")
	}
}

func withCheck(base, extra func(context.Context) error) func(context.Context) error {
	if base == nil {
		return extra
	}
	return func(ctx context.Context) error {
		if err := base(ctx); err != nil {
			return err
		}
		return extra(ctx)
	}
}
