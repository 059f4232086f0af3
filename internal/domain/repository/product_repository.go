package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock no se modifica aquí: solo a través de StockRepository dentro de una unidad de trabajo.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID busca el producto dentro de la empresa; (nil, nil) si no existe o es de otro tenant.
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
