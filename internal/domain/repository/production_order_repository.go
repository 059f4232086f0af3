package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProductionOrderRepository define el puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ProductionOrder, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProductionOrder, error)
}
