package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeSimple   = "SIMPLE"   // se compra/almacena y se vende directo
	ProductTypePrepared = "PREPARED" // se fabrica consumiendo insumos según su receta
)

// Product representa un producto terminado del catálogo de la empresa.
// Stock es un contador entero que solo cambia a través del libro de movimientos.
type Product struct {
	ID        string
	CompanyID string
	SKU       string // código único por empresa
	Name      string
	Type      string // SIMPLE, PREPARED
	Stock     int64
	MinStock  int64           // umbral de alerta de stock bajo
	Cost      decimal.Decimal // costo unitario almacenado (SIMPLE); PREPARED usa el costo de receta
	Price     decimal.Decimal // precio de venta
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPrepared indica si el producto se produce a partir de receta.
func (p *Product) IsPrepared() bool { return p.Type == ProductTypePrepared }

// ValidProductType valida el tipo de producto.
func ValidProductType(t string) bool {
	return t == ProductTypeSimple || t == ProductTypePrepared
}
