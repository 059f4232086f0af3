// Package costing contiene los servicios de dominio de costeo de inventario.
package costing

import "github.com/shopspring/decimal"

// WeightedAverage recalcula el costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock actual negativo (sobreventa) se toma como cero: las unidades adeudadas no tienen costo propio.
func WeightedAverage(currentStock, currentCost, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	if currentStock.IsNegative() {
		currentStock = decimal.Zero
	}
	sum := currentStock.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return currentCost
	}
	num := currentStock.Mul(currentCost).Add(qtyIn.Mul(costIn))
	return num.Div(sum)
}
