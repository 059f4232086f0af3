package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo líneas de receta de productos preparados.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// Create persiste una línea de receta.
func (r *RecipeRepo) Create(ctx context.Context, l *entity.RecipeLine) error {
	query := `
		INSERT INTO recipe_lines (id, company_id, product_id, ingredient_id, quantity, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, l.ProductID, l.IngredientID, l.Quantity, string(l.Unit), l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recipe line: %w", err)
	}
	return nil
}

// ListByProduct líneas de la receta ordenadas por insumo (orden estable de bloqueo).
func (r *RecipeRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.RecipeLine, error) {
	if !validID(companyID, productID) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, product_id, ingredient_id, quantity, unit, created_at
		FROM recipe_lines WHERE company_id = $1 AND product_id = $2
		ORDER BY ingredient_id`
	rows, err := r.q.Query(ctx, query, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		var unit string
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ProductID, &l.IngredientID, &l.Quantity, &unit, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		l.Unit = units.Unit(unit)
		list = append(list, &l)
	}
	return list, rows.Err()
}
