package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeManual     = "MANUAL"     // carga inicial / entrada manual
	MovementTypeAdjustment = "ADJUSTMENT" // corrección, merma, pérdida
	MovementTypeSale       = "SALE"       // salida por venta (directa o por explosión de receta)
	MovementTypeCancel     = "CANCEL"     // reintegro por anulación/eliminación de venta
	MovementTypeProduction = "PRODUCTION" // consumo de insumos y entrada de producto terminado
)

// ValidMovementType valida el tipo de movimiento.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeManual, MovementTypeAdjustment, MovementTypeSale, MovementTypeCancel, MovementTypeProduction:
		return true
	}
	return false
}

// StockMovement fila inmutable del libro: se crea una vez junto con el cambio de stock y nunca se modifica.
// Referencia exactamente uno de ProductID o IngredientID.
type StockMovement struct {
	ID                string
	CompanyID         string
	ProductID         *string
	IngredientID      *string
	UserID            string
	Type              string
	Quantity          decimal.Decimal // positivo entrada, negativo salida
	StockBefore       decimal.Decimal
	StockAfter        decimal.Decimal
	Reason            string
	SaleID            *string
	ProductionOrderID *string
	CreatedAt         time.Time
}

// Ref devuelve la entidad afectada por el movimiento.
func (m *StockMovement) Ref() StockRef {
	if m.ProductID != nil {
		return ProductRef(*m.ProductID)
	}
	if m.IngredientID != nil {
		return IngredientRef(*m.IngredientID)
	}
	return StockRef{}
}
