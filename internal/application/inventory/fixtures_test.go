package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID      = "company-1"
	otherCompanyID = "company-2"
	userID         = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store   *memory.Store
	ledger  *inventory.StockLedger
	recipes *inventory.RecipeEngine
}

func newFixture(t *testing.T, allowNegative bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedCompany(entity.Company{ID: companyID, Name: "Café Central", Status: entity.CompanyStatusActive, AllowNegativeStock: allowNegative})
	store.SeedCompany(entity.Company{ID: otherCompanyID, Name: "Otra", Status: entity.CompanyStatusActive})
	ledger := inventory.NewStockLedger(store)
	return &fixture{store: store, ledger: ledger, recipes: inventory.NewRecipeEngine(ledger)}
}

func (f *fixture) product(id, typ string, stock int64) {
	f.store.SeedProduct(entity.Product{
		ID: id, CompanyID: companyID, SKU: id, Name: "Producto " + id, Type: typ,
		Stock: stock, Cost: dec("4"), Price: dec("10"),
	})
}

func (f *fixture) ingredient(id string, unit units.Unit, stock, cost string) {
	f.store.SeedIngredient(entity.Ingredient{
		ID: id, CompanyID: companyID, Name: "Insumo " + id, Unit: unit,
		Stock: dec(stock), Cost: dec(cost),
	})
}

func (f *fixture) recipe(productID, ingredientID, qty string, unit units.Unit) {
	f.store.SeedRecipeLine(entity.RecipeLine{
		ID: productID + "-" + ingredientID, CompanyID: companyID, ProductID: productID,
		IngredientID: ingredientID, Quantity: dec(qty), Unit: unit,
	})
}

func (f *fixture) productStock(t *testing.T, id string) int64 {
	t.Helper()
	p, ok := f.store.Product(id)
	require.True(t, ok, "producto %s debe existir", id)
	return p.Stock
}

func (f *fixture) ingredientStock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	in, ok := f.store.Ingredient(id)
	require.True(t, ok, "insumo %s debe existir", id)
	return in.Stock
}

// run ejecuta fn en una unidad de trabajo del store.
func (f *fixture) run(fn func(uow ports.UnitOfWork) error) error {
	return f.store.Run(context.Background(), fn)
}

func nopRecorder(strict bool) *audit.Recorder {
	return audit.NewRecorder(zerolog.Nop(), strict)
}
