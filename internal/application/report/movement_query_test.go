package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/sales"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
)

const companyID = "company-1"

func TestMovementQuery(t *testing.T) {
	store := memory.NewStore()
	store.SeedCompany(entity.Company{ID: companyID, Name: "Tienda"})
	store.SeedProduct(entity.Product{ID: "p1", CompanyID: companyID, Name: "P1", Type: entity.ProductTypeSimple, Stock: 10, Price: decimal.NewFromInt(2)})
	ledger := inventory.NewStockLedger(store)
	rec := audit.NewRecorder(zerolog.Nop(), false)
	adjust := inventory.NewAdjustStockUseCase(store, ledger, rec)
	saleUC := sales.NewSaleUseCase(store, ledger, inventory.NewRecipeEngine(ledger), rec)
	ctx := context.Background()

	_, err := adjust.AdjustProductStock(ctx, inventory.AdjustStockInput{CompanyID: companyID, UserID: "u", EntityID: "p1", Quantity: decimal.NewFromInt(5), Reason: "compra"})
	require.NoError(t, err)
	sale, err := saleUC.UpsertSale(ctx, companyID, "u", sales.UpsertSaleInput{Items: []sales.SaleItemInput{{ProductID: "p1", Quantity: 3}}})
	require.NoError(t, err)
	require.NoError(t, saleUC.DeleteSale(ctx, companyID, "u", sale.ID))

	q := report.NewMovementQuery(store)

	page, err := q.ByProduct(ctx, companyID, "p1", report.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, entity.MovementTypeCancel, page.Items[0].Type, "más reciente primero")
	assert.Equal(t, entity.MovementTypeAdjustment, page.Items[2].Type)

	limited, err := q.ByProduct(ctx, companyID, "p1", report.MovementFilter{Page: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, limited.Items, 1)
	assert.Equal(t, entity.MovementTypeSale, limited.Items[0].Type)

	bySale, err := q.BySale(ctx, companyID, sale.ID)
	require.NoError(t, err)
	require.Len(t, bySale, 2, "la venta eliminada conserva su historial")
	assert.Equal(t, entity.MovementTypeSale, bySale[0].Type)
	assert.Equal(t, entity.MovementTypeCancel, bySale[1].Type)

	_, err = q.ByProduct(ctx, "company-2", "p1", report.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = q.ByIngredient(ctx, companyID, "x", report.MovementFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
