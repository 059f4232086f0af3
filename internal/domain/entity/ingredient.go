package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// Ingredient insumo/materia prima. Stock y Cost están expresados en Unit (unidad de stock).
type Ingredient struct {
	ID        string
	CompanyID string
	Name      string
	Unit      units.Unit
	Stock     decimal.Decimal
	MinStock  decimal.Decimal
	Cost      decimal.Decimal // costo por unidad de stock
	CreatedAt time.Time
	UpdatedAt time.Time
}
