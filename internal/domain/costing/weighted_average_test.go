package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverage(t *testing.T) {
	// 10 u a 100 + 10 u a 200 = 150
	got := WeightedAverage(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), "got %s", got)
}

func TestWeightedAverage_SinStockPrevio(t *testing.T) {
	got := WeightedAverage(d("0"), d("0"), d("4"), d("12.5"))
	assert.True(t, got.Equal(d("12.5")), "got %s", got)
}

func TestWeightedAverage_StockNegativoCuentaComoCero(t *testing.T) {
	got := WeightedAverage(d("-3"), d("80"), d("5"), d("100"))
	assert.True(t, got.Equal(d("100")), "got %s", got)
}

func TestWeightedAverage_SumaNoPositivaConservaCosto(t *testing.T) {
	got := WeightedAverage(d("0"), d("42"), d("0"), d("100"))
	assert.True(t, got.Equal(d("42")), "got %s", got)
}
