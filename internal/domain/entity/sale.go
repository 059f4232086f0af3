package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta. (none) -> ACTIVE -> CANCELED.
const (
	SaleStatusActive   = "ACTIVE"
	SaleStatusCanceled = "CANCELED"
)

// Sale cabecera de venta. TotalAmount/TotalCost son sumas denormalizadas de sus ítems.
type Sale struct {
	ID          string
	CompanyID   string
	CustomerID  *string
	Date        time.Time
	Status      string
	TotalAmount decimal.Decimal
	TotalCost   decimal.Decimal
	CreatedBy   string
	CanceledAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []*SaleItem
}

// Profit utilidad bruta de la venta.
func (s *Sale) Profit() decimal.Decimal { return s.TotalAmount.Sub(s.TotalCost) }

// IsCanceled indica si la venta está anulada.
func (s *Sale) IsCanceled() bool { return s.Status == SaleStatusCanceled }

// SaleItem línea de venta. UnitPrice y BaseCost son fotos tomadas al crear la venta y no se recalculan.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    int64
	UnitPrice   decimal.Decimal
	BaseCost    decimal.Decimal
	TotalAmount decimal.Decimal
	TotalCost   decimal.Decimal
}
