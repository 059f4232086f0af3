package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// SaleItemRequest línea de una venta nueva.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Date       *time.Time        `json:"date,omitempty"`
	CustomerID *string           `json:"customer_id,omitempty"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateSaleRequest body para PUT /api/sales/:id. Solo fecha y cliente son editables;
// Items se acepta en el JSON únicamente para rechazarlo con un error explícito.
type UpdateSaleRequest struct {
	Date       *time.Time        `json:"date,omitempty"`
	CustomerID *string           `json:"customer_id,omitempty"`
	Items      []SaleItemRequest `json:"items,omitempty"`
}

// CancelSaleRequest body opcional para POST /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// SaleItemResponse línea de venta con precio y costo congelados.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BaseCost    decimal.Decimal `json:"base_cost"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	CompanyID   string             `json:"company_id"`
	CustomerID  *string            `json:"customer_id,omitempty"`
	Date        time.Time          `json:"date"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	TotalCost   decimal.Decimal    `json:"total_cost"`
	Profit      decimal.Decimal    `json:"profit"`
	CreatedBy   string             `json:"created_by"`
	CanceledAt  *time.Time         `json:"canceled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Items       []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToSaleResponse mapea la venta con sus ítems (si vienen cargados).
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	out := &SaleResponse{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		CustomerID:  s.CustomerID,
		Date:        s.Date,
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		TotalCost:   s.TotalCost,
		Profit:      s.Profit(),
		CreatedBy:   s.CreatedBy,
		CanceledAt:  s.CanceledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			BaseCost:    it.BaseCost,
			TotalAmount: it.TotalAmount,
			TotalCost:   it.TotalCost,
		})
	}
	return out
}
