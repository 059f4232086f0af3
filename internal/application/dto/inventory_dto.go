package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventory/{products|ingredients}/:id/adjust.
// Quantity con signo; UnitCost opcional recalcula el costo promedio en entradas.
type AdjustStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	Type     string           `json:"type" validate:"omitempty,oneof=MANUAL ADJUSTMENT"`
	Reason   string           `json:"reason" validate:"required"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         *string         `json:"product_id,omitempty"`
	IngredientID      *string         `json:"ingredient_id,omitempty"`
	UserID            string          `json:"user_id"`
	Type              string          `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	StockBefore       decimal.Decimal `json:"stock_before"`
	StockAfter        decimal.Decimal `json:"stock_after"`
	Reason            string          `json:"reason"`
	SaleID            *string         `json:"sale_id,omitempty"`
	ProductionOrderID *string         `json:"production_order_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockAlertDTO producto o insumo con stock en o por debajo del mínimo.
type StockAlertDTO struct {
	Kind              string          `json:"kind"` // PRODUCT, INGREDIENT
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Stock             decimal.Decimal `json:"stock"`
	MinStock          decimal.Decimal `json:"min_stock"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`         // MinStock * 1.5
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // IdealStock - Stock
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"` // SuggestedOrderQty * UnitCost
	Priority          int             `json:"priority"`       // 1 = más urgente
}

// ToMovementResponse mapea un movimiento.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		IngredientID:      m.IngredientID,
		UserID:            m.UserID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		StockBefore:       m.StockBefore,
		StockAfter:        m.StockAfter,
		Reason:            m.Reason,
		SaleID:            m.SaleID,
		ProductionOrderID: m.ProductionOrderID,
		CreatedAt:         m.CreatedAt,
	}
}

// ToMovementList mapea una página de movimientos.
func ToMovementList(list []*entity.StockMovement, page PageRequest) *MovementListResponse {
	items := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &MovementListResponse{Items: items, Page: page.Response()}
}
