package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient (DIP).
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	// GetByID busca el insumo dentro de la empresa; (nil, nil) si no existe o es de otro tenant.
	GetByID(ctx context.Context, companyID, id string) (*entity.Ingredient, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Ingredient, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
