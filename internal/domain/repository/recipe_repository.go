package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia para las líneas de receta (BOM).
type RecipeRepository interface {
	Create(ctx context.Context, line *entity.RecipeLine) error
	ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.RecipeLine, error)
}
