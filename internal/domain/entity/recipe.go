package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// RecipeLine línea de receta (BOM) de un producto PREPARED: cuánto insumo se consume por unidad producida.
// Unit puede diferir de la unidad de stock del insumo pero debe ser de la misma familia.
type RecipeLine struct {
	ID           string
	CompanyID    string
	ProductID    string
	IngredientID string
	Quantity     decimal.Decimal
	Unit         units.Unit
	CreatedAt    time.Time
}
