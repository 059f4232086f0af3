package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/demo"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/application/sales"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contenedor PostgreSQL compartido por los tests del paquete
// ──────────────────────────────────────────────────────────────────────────────

type testDB struct {
	pool *pgxpool.Pool
	tx   *postgres.TxRunner
}

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "iniciar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &testDB{pool: pool, tx: postgres.NewTxRunner(pool, 3, zerolog.Nop())}
}

type seeded struct {
	companyID string
	galleta   string
	latte     string
	cafe      string
	leche     string
}

func seed(t *testing.T, db *testDB, allowNegative bool) seeded {
	t.Helper()
	now := time.Now().UTC()
	s := seeded{
		companyID: uuid.NewString(),
		galleta:   uuid.NewString(),
		latte:     uuid.NewString(),
		cafe:      uuid.NewString(),
		leche:     uuid.NewString(),
	}
	err := db.tx.Run(context.Background(), func(uow ports.UnitOfWork) error {
		ctx := context.Background()
		if err := uow.Companies().Create(ctx, &entity.Company{
			ID: s.companyID, Name: "Café Central", NIT: s.companyID[:12], Status: entity.CompanyStatusActive,
			AllowNegativeStock: allowNegative, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		products := []*entity.Product{
			{ID: s.galleta, CompanyID: s.companyID, SKU: "GAL-1", Name: "Galleta", Type: entity.ProductTypeSimple,
				Stock: 10, MinStock: 2, Cost: decimal.RequireFromString("1.2"), Price: decimal.NewFromInt(3), CreatedAt: now, UpdatedAt: now},
			{ID: s.latte, CompanyID: s.companyID, SKU: "LAT-1", Name: "Latte", Type: entity.ProductTypePrepared,
				Price: decimal.NewFromInt(9), CreatedAt: now, UpdatedAt: now},
		}
		for _, p := range products {
			if err := uow.Products().Create(ctx, p); err != nil {
				return err
			}
		}
		ingredients := []*entity.Ingredient{
			{ID: s.cafe, CompanyID: s.companyID, Name: "Café molido", Unit: units.Kilogram,
				Stock: decimal.NewFromInt(1), MinStock: decimal.RequireFromString("0.5"), Cost: decimal.NewFromInt(50), CreatedAt: now, UpdatedAt: now},
			{ID: s.leche, CompanyID: s.companyID, Name: "Leche", Unit: units.Liter,
				Stock: decimal.NewFromInt(1), Cost: decimal.NewFromInt(4), CreatedAt: now, UpdatedAt: now},
		}
		for _, in := range ingredients {
			if err := uow.Ingredients().Create(ctx, in); err != nil {
				return err
			}
		}
		lines := []*entity.RecipeLine{
			{ID: uuid.NewString(), CompanyID: s.companyID, ProductID: s.latte, IngredientID: s.cafe,
				Quantity: decimal.NewFromInt(18), Unit: units.Gram, CreatedAt: now},
			{ID: uuid.NewString(), CompanyID: s.companyID, ProductID: s.latte, IngredientID: s.leche,
				Quantity: decimal.NewFromInt(200), Unit: units.Milliliter, CreatedAt: now},
		}
		for _, l := range lines {
			if err := uow.Recipes().Create(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return s
}

func ingredientStock(t *testing.T, db *testDB, companyID, id string) decimal.Decimal {
	t.Helper()
	var in *entity.Ingredient
	err := db.tx.Run(context.Background(), func(uow ports.UnitOfWork) error {
		var err error
		in, err = uow.Ingredients().GetByID(context.Background(), companyID, id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, in)
	return in.Stock
}

func productStock(t *testing.T, db *testDB, companyID, id string) int64 {
	t.Helper()
	var p *entity.Product
	err := db.tx.Run(context.Background(), func(uow ports.UnitOfWork) error {
		var err error
		p, err = uow.Products().GetByID(context.Background(), companyID, id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_VentaAnulacionYRepeticion(t *testing.T) {
	db := newTestDB(t)
	s := seed(t, db, false)
	ctx := context.Background()

	ledger := inventory.NewStockLedger(db.tx)
	uc := sales.NewSaleUseCase(db.tx, ledger, inventory.NewRecipeEngine(ledger), audit.NewRecorder(zerolog.Nop(), true))

	sale, err := uc.UpsertSale(ctx, s.companyID, "user-1", sales.UpsertSaleInput{
		Items: []sales.SaleItemInput{{ProductID: s.latte, Quantity: 2}, {ProductID: s.galleta, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(27).Equal(sale.TotalAmount), "2×9 + 3×3, got %s", sale.TotalAmount)
	// 2 × (0.018 kg × 50 + 0.2 L × 4) + 3 × 1.2
	assert.True(t, decimal.RequireFromString("7").Equal(sale.TotalCost), "got %s", sale.TotalCost)

	assert.True(t, decimal.RequireFromString("0.964").Equal(ingredientStock(t, db, s.companyID, s.cafe)))
	assert.True(t, decimal.RequireFromString("0.6").Equal(ingredientStock(t, db, s.companyID, s.leche)))
	assert.Equal(t, int64(7), productStock(t, db, s.companyID, s.galleta))

	_, err = uc.CancelSale(ctx, s.companyID, "user-1", sale.ID, "cliente devolvió")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(ingredientStock(t, db, s.companyID, s.cafe)))
	assert.True(t, decimal.NewFromInt(1).Equal(ingredientStock(t, db, s.companyID, s.leche)))
	assert.Equal(t, int64(10), productStock(t, db, s.companyID, s.galleta))

	_, err = uc.CancelSale(ctx, s.companyID, "user-1", sale.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrAlreadyCanceled)

	var count int
	require.NoError(t, db.pool.QueryRow(ctx,
		`SELECT count(*) FROM stock_movements WHERE sale_id = $1`, sale.ID).Scan(&count))
	assert.Equal(t, 6, count, "3 salidas y 3 reintegros")
	require.NoError(t, db.pool.QueryRow(ctx,
		`SELECT count(*) FROM audit_logs WHERE entity_id = $1`, sale.ID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPostgres_VentaSinStockRevierteTodo(t *testing.T) {
	db := newTestDB(t)
	s := seed(t, db, false)
	ledger := inventory.NewStockLedger(db.tx)
	uc := sales.NewSaleUseCase(db.tx, ledger, inventory.NewRecipeEngine(ledger), audit.NewRecorder(zerolog.Nop(), false))

	// 6 lattes requieren 1.2 L de leche; solo hay 1 L.
	_, err := uc.UpsertSale(context.Background(), s.companyID, "user-1", sales.UpsertSaleInput{
		Items: []sales.SaleItemInput{{ProductID: s.galleta, Quantity: 1}, {ProductID: s.latte, Quantity: 6}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), productStock(t, db, s.companyID, s.galleta))
	assert.True(t, decimal.NewFromInt(1).Equal(ingredientStock(t, db, s.companyID, s.cafe)))
	var count int
	require.NoError(t, db.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM sales WHERE company_id = $1`, s.companyID).Scan(&count))
	assert.Zero(t, count)
}

func TestPostgres_AjustesConcurrentesSeSerializan(t *testing.T) {
	db := newTestDB(t)
	s := seed(t, db, false)
	ledger := inventory.NewStockLedger(db.tx)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Adjust(context.Background(), inventory.AdjustInput{
				Ref: entity.ProductRef(s.galleta), CompanyID: s.companyID, UserID: "user-1",
				Quantity: decimal.NewFromInt(-1), Type: entity.MovementTypeAdjustment, Reason: "merma",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, insufficient)
	assert.Equal(t, int64(0), productStock(t, db, s.companyID, s.galleta))
}

func TestPostgres_MovimientosSonInmutables(t *testing.T) {
	db := newTestDB(t)
	s := seed(t, db, false)
	ledger := inventory.NewStockLedger(db.tx)
	mov, err := ledger.Adjust(context.Background(), inventory.AdjustInput{
		Ref: entity.IngredientRef(s.cafe), CompanyID: s.companyID, UserID: "user-1",
		Quantity: decimal.RequireFromString("0.25"), Type: entity.MovementTypeManual, Reason: "compra",
	})
	require.NoError(t, err)

	_, err = db.pool.Exec(context.Background(), `UPDATE stock_movements SET reason = 'x' WHERE id = $1`, mov.ID)
	assert.Error(t, err)
	_, err = db.pool.Exec(context.Background(), `DELETE FROM stock_movements WHERE id = $1`, mov.ID)
	assert.Error(t, err)
}

func TestPostgres_AlertasYTenant(t *testing.T) {
	db := newTestDB(t)
	s := seed(t, db, false)
	other := seed(t, db, false)
	ctx := context.Background()

	err := db.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		p, err := uow.Products().GetByID(ctx, other.companyID, s.galleta)
		require.NoError(t, err)
		assert.Nil(t, p, "otro tenant no ve el producto")

		p, err = uow.Products().GetByID(ctx, s.companyID, "no-es-uuid")
		require.NoError(t, err)
		assert.Nil(t, p)
		return nil
	})
	require.NoError(t, err)

	ledger := inventory.NewStockLedger(db.tx)
	_, err = ledger.Adjust(ctx, inventory.AdjustInput{
		Ref: entity.IngredientRef(s.cafe), CompanyID: s.companyID, UserID: "user-1",
		Quantity: decimal.RequireFromString("-0.6"), Type: entity.MovementTypeAdjustment, Reason: "merma",
	})
	require.NoError(t, err)

	err = db.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		low, err := uow.Stock().ListLow(ctx, s.companyID)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, entity.IngredientRef(s.cafe), low[0].Ref)
		assert.True(t, decimal.RequireFromString("0.4").Equal(low[0].Stock))
		return nil
	})
	require.NoError(t, err)
}

func TestPostgres_CatalogoDemoYClientes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cat, err := demo.Seed(ctx, db.tx, inventory.NewStockLedger(db.tx), "Café Demo")
	require.NoError(t, err)

	err = db.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		p, err := uow.Products().GetByID(ctx, cat.CompanyID, cat.Products["GAL-001"])
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, int64(40), p.Stock)

		movs, err := uow.Movements().ListByRef(ctx, cat.CompanyID, entity.ProductRef(p.ID), nil, nil, 10, 0)
		require.NoError(t, err)
		require.Len(t, movs, 1)
		assert.Equal(t, entity.MovementTypeManual, movs[0].Type)
		assert.True(t, movs[0].StockAfter.Equal(decimal.NewFromInt(40)))
		return nil
	})
	require.NoError(t, err)

	customers := sales.NewCustomerUseCase(db.tx)
	_, err = customers.Create(ctx, cat.CompanyID, dto.CreateCustomerRequest{Name: "Ana", TaxID: "52123456"})
	require.NoError(t, err)
	_, err = customers.Create(ctx, cat.CompanyID, dto.CreateCustomerRequest{Name: "Ana bis", TaxID: "52123456"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := customers.List(ctx, cat.CompanyID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
