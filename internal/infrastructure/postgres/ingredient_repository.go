package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación de IngredientRepository sobre PostgreSQL.
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, company_id, name, unit, stock, min_stock, cost, created_at, updated_at`

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var in entity.Ingredient
	var unit string
	err := row.Scan(
		&in.ID, &in.CompanyID, &in.Name, &unit, &in.Stock, &in.MinStock, &in.Cost, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	in.Unit = units.Unit(unit)
	return &in, nil
}

// Create persiste un nuevo insumo.
func (r *IngredientRepo) Create(ctx context.Context, in *entity.Ingredient) error {
	query := `
		INSERT INTO ingredients (` + ingredientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		in.ID, in.CompanyID, in.Name, string(in.Unit), in.Stock, in.MinStock, in.Cost, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo de la empresa.
func (r *IngredientRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Ingredient, error) {
	if !validID(id, companyID) {
		return nil, nil
	}
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1 AND company_id = $2`
	in, err := scanIngredient(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return in, nil
}

// ListByCompany lista insumos de una empresa con paginación.
func (r *IngredientRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Ingredient, error) {
	if !validID(companyID) {
		return nil, nil
	}
	query := `
		SELECT ` + ingredientColumns + ` FROM ingredients
		WHERE company_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		in, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

// UpdateCost actualiza el costo por unidad de stock del insumo.
func (r *IngredientRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	query := `UPDATE ingredients SET cost = $1, updated_at = now() WHERE id = $2`
	_, err := r.q.Exec(ctx, query, cost, id)
	if err != nil {
		return fmt.Errorf("update ingredient cost: %w", err)
	}
	return nil
}
