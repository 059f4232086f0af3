package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

func adjustIn(ref entity.StockRef, qty string) inventory.AdjustInput {
	return inventory.AdjustInput{
		Ref: ref, CompanyID: companyID, UserID: userID,
		Quantity: dec(qty), Type: entity.MovementTypeAdjustment, Reason: "conteo",
	}
}

func TestStockLedger_RegistraMovimientoConAntesYDespues(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, 5)

	mov, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "3"))
	require.NoError(t, err)

	assert.True(t, mov.StockBefore.Equal(dec("5")))
	assert.True(t, mov.StockAfter.Equal(dec("8")))
	require.NotNil(t, mov.ProductID)
	assert.Equal(t, "p1", *mov.ProductID)
	assert.Nil(t, mov.IngredientID)
	assert.Equal(t, int64(8), f.productStock(t, "p1"))
	assert.Len(t, f.store.Movements(), 1)
}

// La suma de movimientos explica el stock final y cada movimiento encadena con el anterior.
func TestStockLedger_Conservacion(t *testing.T) {
	f := newFixture(t, false)
	f.ingredient("harina", "KG", "10", "2")
	ref := entity.IngredientRef("harina")

	deltas := []string{"2.5", "-1.25", "-3", "0.75", "4", "-0.001", "-12.999"}
	for _, q := range deltas {
		_, err := f.ledger.Adjust(context.Background(), adjustIn(ref, q))
		require.NoError(t, err, q)
	}

	sum := decimal.Zero
	prevAfter := dec("10")
	for _, m := range f.store.Movements() {
		assert.True(t, m.StockBefore.Equal(prevAfter), "before %s != after previo %s", m.StockBefore, prevAfter)
		assert.True(t, m.StockAfter.Equal(m.StockBefore.Add(m.Quantity)))
		sum = sum.Add(m.Quantity)
		prevAfter = m.StockAfter
	}
	final := f.ingredientStock(t, "harina")
	assert.True(t, final.Equal(dec("10").Add(sum)), "final %s", final)
	assert.True(t, final.IsZero(), "final %s", final)
}

func TestStockLedger_BloqueaStockNegativo(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, 2)

	_, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "-3"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), f.productStock(t, "p1"))
	assert.Empty(t, f.store.Movements())
}

func TestStockLedger_PermiteNegativoSiLaEmpresaLoHabilita(t *testing.T) {
	f := newFixture(t, true)
	f.product("p1", entity.ProductTypeSimple, 2)

	mov, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "-3"))
	require.NoError(t, err)
	assert.True(t, mov.StockAfter.Equal(dec("-1")))
	assert.Equal(t, int64(-1), f.productStock(t, "p1"))
}

// Con la política desactivada, una entrada que no alcanza a cubrir un saldo negativo heredado también se rechaza.
func TestStockLedger_EntradaQueDejaSaldoNegativoSinPolitica(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, -5)

	_, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "2"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(-5), f.productStock(t, "p1"))
	assert.Empty(t, f.store.Movements())

	mov, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "5"))
	require.NoError(t, err)
	assert.True(t, mov.StockAfter.IsZero())
	assert.Equal(t, int64(0), f.productStock(t, "p1"))
}

func TestStockLedger_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, 2)
	ctx := context.Background()

	_, err := f.ledger.Adjust(ctx, adjustIn(entity.ProductRef("p1"), "0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.ledger.Adjust(ctx, adjustIn(entity.ProductRef("p1"), "1.5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fracción en producto")

	in := adjustIn(entity.ProductRef("p1"), "1")
	in.Type = "TRANSFER"
	_, err = f.ledger.Adjust(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = f.ledger.Adjust(ctx, adjustIn(entity.ProductRef("no-existe"), "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other := adjustIn(entity.ProductRef("p1"), "1")
	other.CompanyID = otherCompanyID
	_, err = f.ledger.Adjust(ctx, other)
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto de otro tenant")

	assert.Empty(t, f.store.Movements())
	assert.Equal(t, int64(2), f.productStock(t, "p1"))
}

// Ajustes concurrentes sobre la misma fila se serializan: nunca se vende más de lo disponible.
func TestStockLedger_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, 30)

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Adjust(context.Background(), adjustIn(entity.ProductRef("p1"), "-1"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, ok)
	assert.Equal(t, 20, insufficient)
	assert.Equal(t, int64(0), f.productStock(t, "p1"))
	assert.Len(t, f.store.Movements(), 30)
}

func TestStockLedger_ContextoCanceladoNoEscribe(t *testing.T) {
	f := newFixture(t, false)
	f.product("p1", entity.ProductTypeSimple, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.ledger.Adjust(ctx, adjustIn(entity.ProductRef("p1"), "-1"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(3), f.productStock(t, "p1"))
}
