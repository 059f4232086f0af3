package production_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/production"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

const (
	companyID = "company-1"
	userID    = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T, strictAudit bool) (*memory.Store, *production.ProduceUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.SeedCompany(entity.Company{ID: companyID, Name: "Panadería", Status: entity.CompanyStatusActive})
	store.SeedProduct(entity.Product{ID: "pan", CompanyID: companyID, SKU: "PAN", Name: "Pan", Type: entity.ProductTypePrepared, Stock: 2, Price: dec("3")})
	store.SeedProduct(entity.Product{ID: "agua", CompanyID: companyID, SKU: "AGUA", Name: "Agua", Type: entity.ProductTypeSimple, Stock: 10})
	store.SeedIngredient(entity.Ingredient{ID: "harina", CompanyID: companyID, Name: "Harina", Unit: units.Kilogram, Stock: dec("5"), Cost: dec("2")})
	store.SeedIngredient(entity.Ingredient{ID: "levadura", CompanyID: companyID, Name: "Levadura", Unit: units.Gram, Stock: dec("100"), Cost: dec("0.05")})
	store.SeedRecipeLine(entity.RecipeLine{ID: "r1", CompanyID: companyID, ProductID: "pan", IngredientID: "harina", Quantity: dec("250"), Unit: units.Gram})
	store.SeedRecipeLine(entity.RecipeLine{ID: "r2", CompanyID: companyID, ProductID: "pan", IngredientID: "levadura", Quantity: dec("10"), Unit: units.Gram})

	ledger := inventory.NewStockLedger(store)
	uc := production.NewProduceUseCase(store, ledger, inventory.NewRecipeEngine(ledger), audit.NewRecorder(zerolog.Nop(), strictAudit))
	return store, uc
}

func TestProduce_ConsumeInsumosEIngresaProducto(t *testing.T) {
	store, uc := setup(t, false)

	res, err := uc.Produce(context.Background(), production.ProduceInput{ProductID: "pan", Quantity: 4, CompanyID: companyID, UserID: userID})
	require.NoError(t, err)

	// 1 kg harina * 2 + 40 g levadura * 0.05
	assert.True(t, res.TotalCost.Equal(dec("4")), "total %s", res.TotalCost)
	assert.True(t, res.Order.UnitCost.Equal(dec("1")), "unit %s", res.Order.UnitCost)
	assert.Equal(t, int64(4), res.Order.Quantity)

	pan, _ := store.Product("pan")
	assert.Equal(t, int64(6), pan.Stock)
	harina, _ := store.Ingredient("harina")
	assert.True(t, harina.Stock.Equal(dec("4")))
	levadura, _ := store.Ingredient("levadura")
	assert.True(t, levadura.Stock.Equal(dec("60")))

	movs := store.Movements()
	require.Len(t, movs, 3)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeProduction, m.Type)
		require.NotNil(t, m.ProductionOrderID)
		assert.Equal(t, res.Order.ID, *m.ProductionOrderID)
	}

	orders := store.ProductionOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, res.Order.ID, orders[0].ID)

	events := store.AuditEvents()
	require.Len(t, events, 1)
	assert.Equal(t, entity.AuditProductionCompleted, events[0].Type)
	assert.Equal(t, res.Order.ID, events[0].EntityID)
}

// Un insumo insuficiente deja todo como estaba: ni consumos parciales ni orden.
func TestProduce_Atomicidad(t *testing.T) {
	store, uc := setup(t, false)

	_, err := uc.Produce(context.Background(), production.ProduceInput{ProductID: "pan", Quantity: 21, CompanyID: companyID, UserID: userID})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	pan, _ := store.Product("pan")
	assert.Equal(t, int64(2), pan.Stock)
	harina, _ := store.Ingredient("harina")
	assert.True(t, harina.Stock.Equal(dec("5")))
	assert.Empty(t, store.Movements())
	assert.Empty(t, store.ProductionOrders())
	assert.Empty(t, store.AuditEvents())
}

func TestProduce_Validaciones(t *testing.T) {
	_, uc := setup(t, false)
	ctx := context.Background()

	_, err := uc.Produce(ctx, production.ProduceInput{ProductID: "pan", Quantity: 0, CompanyID: companyID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Produce(ctx, production.ProduceInput{ProductID: "agua", Quantity: 1, CompanyID: companyID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "SIMPLE no se produce")

	_, err = uc.Produce(ctx, production.ProduceInput{ProductID: "nada", Quantity: 1, CompanyID: companyID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Produce(ctx, production.ProduceInput{ProductID: "pan", Quantity: 1, CompanyID: "company-2", UserID: userID})
	assert.ErrorIs(t, err, domain.ErrNotFound, "otro tenant")
}

func TestProduce_AuditoriaEstrictaRevierteProduccion(t *testing.T) {
	store, uc := setup(t, true)
	store.FailAudit(errors.New("sin conexión"))

	_, err := uc.Produce(context.Background(), production.ProduceInput{ProductID: "pan", Quantity: 1, CompanyID: companyID, UserID: userID})
	require.Error(t, err)

	pan, _ := store.Product("pan")
	assert.Equal(t, int64(2), pan.Stock)
	assert.Empty(t, store.ProductionOrders())
}

func TestProduce_ListaOrdenesRecientesPrimero(t *testing.T) {
	_, uc := setup(t, false)
	ctx := context.Background()

	first, err := uc.Produce(ctx, production.ProduceInput{ProductID: "pan", Quantity: 1, CompanyID: companyID, UserID: userID})
	require.NoError(t, err)
	second, err := uc.Produce(ctx, production.ProduceInput{ProductID: "pan", Quantity: 2, CompanyID: companyID, UserID: userID})
	require.NoError(t, err)

	list, err := uc.List(ctx, companyID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.Order.ID, list.Items[0].ID)
	assert.Equal(t, first.Order.ID, list.Items[1].ID)
}
