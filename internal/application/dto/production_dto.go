package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProduceRequest body para POST /api/production.
type ProduceRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// ProductionOrderResponse orden de producción completada.
type ProductionOrderResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductionOrderListResponse lista paginada de órdenes.
type ProductionOrderListResponse struct {
	Items []ProductionOrderResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// ToProductionOrderResponse mapea una orden de producción.
func ToProductionOrderResponse(o *entity.ProductionOrder) ProductionOrderResponse {
	return ProductionOrderResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		TotalCost: o.TotalCost,
		UnitCost:  o.UnitCost,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
	}
}
