package entity

import "github.com/shopspring/decimal"

// Tipos de entidad con stock.
// StockScale decimales con que se persisten cantidades de stock (NUMERIC(18,6)).
const StockScale = 6

const (
	StockKindProduct    = "PRODUCT"
	StockKindIngredient = "INGREDIENT"
)

// StockRef referencia polimórfica a una entidad con stock (producto o insumo).
type StockRef struct {
	Kind string
	ID   string
}

// ProductRef construye la referencia de un producto.
func ProductRef(id string) StockRef { return StockRef{Kind: StockKindProduct, ID: id} }

// IngredientRef construye la referencia de un insumo.
func IngredientRef(id string) StockRef { return StockRef{Kind: StockKindIngredient, ID: id} }

// Valid indica si la referencia está completa.
func (r StockRef) Valid() bool {
	return r.ID != "" && (r.Kind == StockKindProduct || r.Kind == StockKindIngredient)
}

// StockHolder vista común de productos e insumos que usa el libro de movimientos.
// Integral es true para productos: su contador no admite fracciones.
type StockHolder struct {
	Ref       StockRef
	CompanyID string
	Name      string
	Stock     decimal.Decimal
	MinStock  decimal.Decimal
	Cost      decimal.Decimal
	Integral  bool
}

// IsLow indica si el stock está en o por debajo del mínimo configurado.
// Sin mínimo configurado solo alerta el stock negativo.
func (h *StockHolder) IsLow() bool {
	if !h.MinStock.IsPositive() {
		return h.Stock.IsNegative()
	}
	return h.Stock.LessThanOrEqual(h.MinStock)
}
