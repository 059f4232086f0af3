package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

func TestCatalog_CrearProductoInsumoYReceta(t *testing.T) {
	f := newFixture(t, false)
	uc := inventory.NewCatalogUseCase(f.store, f.recipes)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, companyID, dto.CreateProductRequest{
		SKU: "LAT-01", Name: "Latte", Type: entity.ProductTypePrepared, Price: dec("9"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.Stock)

	ingredient, err := uc.CreateIngredient(ctx, companyID, dto.CreateIngredientRequest{Name: "Café", Unit: "kilos", Cost: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "KG", ingredient.Unit)

	_, err = uc.AddRecipeLine(ctx, companyID, product.ID, dto.AddRecipeLineRequest{
		IngredientID: ingredient.ID, Quantity: dec("150"), Unit: "gramos",
	})
	require.NoError(t, err)

	cost, err := uc.GetRecipeCost(ctx, companyID, product.ID)
	require.NoError(t, err)
	assert.True(t, cost.UnitCost.Equal(dec("1.5")), "cost %s", cost.UnitCost)
	require.Len(t, cost.Lines, 1)
	assert.Equal(t, "G", cost.Lines[0].Unit)

	list, err := uc.ListProducts(ctx, companyID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestCatalog_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	uc := inventory.NewCatalogUseCase(f.store, f.recipes)
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, companyID, dto.CreateProductRequest{SKU: "X", Name: "X", Type: "KIT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateIngredient(ctx, companyID, dto.CreateIngredientRequest{Name: "Sal", Unit: "pizca"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, companyID, dto.CreateProductRequest{SKU: "A", Name: "A", Type: entity.ProductTypeSimple})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, companyID, dto.CreateProductRequest{SKU: "A", Name: "A bis", Type: entity.ProductTypeSimple})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.GetRecipeCost(ctx, companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
