package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

func explode(t *testing.T, f *fixture, in inventory.ExplodeInput) (decimal.Decimal, error) {
	t.Helper()
	var cost decimal.Decimal
	err := f.run(func(uow ports.UnitOfWork) error {
		var err error
		cost, err = f.recipes.ExplodeAndDeduct(context.Background(), uow, in)
		return err
	})
	return cost, err
}

// 150 g de un insumo a 10 por kg: descuenta 0.15 kg y cuesta 1.5.
func TestRecipeEngine_CostoDeterministaConConversion(t *testing.T) {
	f := newFixture(t, false)
	f.product("latte", entity.ProductTypePrepared, 0)
	f.ingredient("cafe", units.Kilogram, "1", "10")
	f.recipe("latte", "cafe", "150", units.Gram)

	saleID := "sale-1"
	cost, err := explode(t, f, inventory.ExplodeInput{
		ProductID: "latte", Quantity: 1, CompanyID: companyID, UserID: userID, SaleID: &saleID,
	})
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("1.5")), "cost %s", cost)
	assert.True(t, f.ingredientStock(t, "cafe").Equal(dec("0.85")))

	movs := f.store.Movements()
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Quantity.Equal(dec("-0.15")))
	assert.Equal(t, entity.MovementTypeSale, movs[0].Type)
	require.NotNil(t, movs[0].SaleID)
	assert.Equal(t, saleID, *movs[0].SaleID)
}

// 0.4 mg de un insumo en kg queda bajo la precisión del libro: no genera movimiento pero suma costo.
func TestRecipeEngine_ConsumoBajoPrecisionSoloSumaCosto(t *testing.T) {
	f := newFixture(t, false)
	f.product("latte", entity.ProductTypePrepared, 0)
	f.ingredient("canela", units.Kilogram, "1", "1000")
	f.ingredient("cafe", units.Kilogram, "1", "10")
	f.recipe("latte", "canela", "0.4", units.Milligram)
	f.recipe("latte", "cafe", "150", units.Gram)

	saleID := "sale-1"
	cost, err := explode(t, f, inventory.ExplodeInput{
		ProductID: "latte", Quantity: 1, CompanyID: companyID, UserID: userID, SaleID: &saleID,
	})
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("1.5004")), "cost %s", cost)
	assert.True(t, f.ingredientStock(t, "canela").Equal(dec("1")))
	assert.True(t, f.ingredientStock(t, "cafe").Equal(dec("0.85")))

	movs := f.store.Movements()
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].IngredientID)
	assert.Equal(t, "cafe", *movs[0].IngredientID)
}

func TestRecipeEngine_SinVentaRegistraProduccion(t *testing.T) {
	f := newFixture(t, false)
	f.product("pan", entity.ProductTypePrepared, 0)
	f.ingredient("harina", units.Kilogram, "5", "2")
	f.ingredient("leche", units.Liter, "2", "3")
	f.recipe("pan", "harina", "200", units.Gram)
	f.recipe("pan", "leche", "50", units.Milliliter)

	orderID := "po-1"
	cost, err := explode(t, f, inventory.ExplodeInput{
		ProductID: "pan", Quantity: 10, CompanyID: companyID, UserID: userID, ProductionOrderID: &orderID,
	})
	require.NoError(t, err)
	// 2 kg * 2 + 0.5 L * 3
	assert.True(t, cost.Equal(dec("5.5")), "cost %s", cost)
	assert.True(t, f.ingredientStock(t, "harina").Equal(dec("3")))
	assert.True(t, f.ingredientStock(t, "leche").Equal(dec("1.5")))

	for _, m := range f.store.Movements() {
		assert.Equal(t, entity.MovementTypeProduction, m.Type)
		assert.Nil(t, m.SaleID)
		require.NotNil(t, m.ProductionOrderID)
		assert.Equal(t, orderID, *m.ProductionOrderID)
	}
}

func TestRecipeEngine_FamiliaIncompatibleAbortaTodo(t *testing.T) {
	f := newFixture(t, false)
	f.product("jugo", entity.ProductTypePrepared, 0)
	f.ingredient("azucar", units.Kilogram, "5", "2")
	f.ingredient("naranja", units.Kilogram, "5", "1")
	f.recipe("jugo", "azucar", "10", units.Gram)
	f.recipe("jugo", "naranja", "300", units.Milliliter)

	_, err := explode(t, f, inventory.ExplodeInput{ProductID: "jugo", Quantity: 1, CompanyID: companyID, UserID: userID})
	require.ErrorIs(t, err, domain.ErrIncompatibleUnitFamily)

	assert.Empty(t, f.store.Movements())
	assert.True(t, f.ingredientStock(t, "azucar").Equal(dec("5")))
}

func TestRecipeEngine_InsumoInsuficienteRevierteLineasPrevias(t *testing.T) {
	f := newFixture(t, false)
	f.product("torta", entity.ProductTypePrepared, 0)
	f.ingredient("a-harina", units.Kilogram, "10", "2")
	f.ingredient("b-huevo", units.Piece, "1", "0.5")
	f.recipe("torta", "a-harina", "500", units.Gram)
	f.recipe("torta", "b-huevo", "3", units.Piece)

	_, err := explode(t, f, inventory.ExplodeInput{ProductID: "torta", Quantity: 1, CompanyID: companyID, UserID: userID})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.ingredientStock(t, "a-harina").Equal(dec("10")))
	assert.True(t, f.ingredientStock(t, "b-huevo").Equal(dec("1")))
	assert.Empty(t, f.store.Movements())
}

func TestRecipeEngine_SinRecetaEsErrorDeConfiguracion(t *testing.T) {
	f := newFixture(t, false)
	f.product("vacio", entity.ProductTypePrepared, 0)

	_, err := explode(t, f, inventory.ExplodeInput{ProductID: "vacio", Quantity: 1, CompanyID: companyID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrRecipeNotConfigured)
}

func TestRecipeEngine_CantidadDebeSerPositiva(t *testing.T) {
	f := newFixture(t, false)
	_, err := explode(t, f, inventory.ExplodeInput{ProductID: "x", Quantity: 0, CompanyID: companyID, UserID: userID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecipeEngine_UnitCostNoDescuenta(t *testing.T) {
	f := newFixture(t, false)
	f.product("latte", entity.ProductTypePrepared, 0)
	f.ingredient("cafe", units.Kilogram, "1", "10")
	f.ingredient("leche", units.Liter, "1", "4")
	f.recipe("latte", "cafe", "18", units.Gram)
	f.recipe("latte", "leche", "250", units.Milliliter)

	var cost decimal.Decimal
	err := f.run(func(uow ports.UnitOfWork) error {
		var err error
		cost, err = f.recipes.UnitCost(context.Background(), uow, companyID, "latte")
		return err
	})
	require.NoError(t, err)
	// 0.018 * 10 + 0.25 * 4
	assert.True(t, cost.Equal(dec("1.18")), "cost %s", cost)
	assert.Empty(t, f.store.Movements())
	assert.True(t, f.ingredientStock(t, "cafe").Equal(dec("1")))
}

func TestRecipeEngine_AddLineValidaFamilia(t *testing.T) {
	f := newFixture(t, false)
	f.product("latte", entity.ProductTypePrepared, 0)
	f.product("agua", entity.ProductTypeSimple, 0)
	f.ingredient("cafe", units.Kilogram, "1", "10")
	ctx := context.Background()

	add := func(line entity.RecipeLine) error {
		return f.run(func(uow ports.UnitOfWork) error { return f.recipes.AddLine(ctx, uow, &line) })
	}

	err := add(entity.RecipeLine{CompanyID: companyID, ProductID: "latte", IngredientID: "cafe", Quantity: dec("1"), Unit: units.Liter})
	assert.ErrorIs(t, err, domain.ErrIncompatibleUnitFamily)

	err = add(entity.RecipeLine{CompanyID: companyID, ProductID: "agua", IngredientID: "cafe", Quantity: dec("1"), Unit: units.Gram})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto SIMPLE no lleva receta")

	err = add(entity.RecipeLine{CompanyID: companyID, ProductID: "latte", IngredientID: "cafe", Quantity: dec("0"), Unit: units.Gram})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = add(entity.RecipeLine{CompanyID: companyID, ProductID: "latte", IngredientID: "cafe", Quantity: dec("18"), Unit: units.Gram})
	require.NoError(t, err)

	var lines []*entity.RecipeLine
	require.NoError(t, f.run(func(uow ports.UnitOfWork) error {
		var err error
		lines, err = uow.Recipes().ListByProduct(ctx, companyID, "latte")
		return err
	}))
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0].ID)

	err = add(entity.RecipeLine{CompanyID: companyID, ProductID: "latte", IngredientID: "cafe", Quantity: dec("20"), Unit: units.Gram})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el insumo ya está en la receta")
}
