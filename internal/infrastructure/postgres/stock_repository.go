package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo lectura y escritura del saldo de productos e insumos (usable con pool o tx).
// El saldo vive en la propia fila del producto/insumo; el bloqueo es SELECT ... FOR UPDATE.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func stockTable(kind string) (string, error) {
	switch kind {
	case entity.StockKindProduct:
		return "products", nil
	case entity.StockKindIngredient:
		return "ingredients", nil
	}
	return "", fmt.Errorf("%w: tipo de stock %q", domain.ErrInvalidInput, kind)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción y devuelve su saldo.
func (r *StockRepo) GetForUpdate(ctx context.Context, ref entity.StockRef, companyID string) (*entity.StockHolder, error) {
	table, err := stockTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	if !validID(ref.ID, companyID) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, name, stock::numeric, min_stock::numeric, cost
		FROM ` + table + ` WHERE id = $1 AND company_id = $2
		FOR UPDATE`
	h := entity.StockHolder{Ref: ref, Integral: ref.Kind == entity.StockKindProduct}
	var id string
	err = r.q.QueryRow(ctx, query, ref.ID, companyID).Scan(
		&id, &h.CompanyID, &h.Name, &h.Stock, &h.MinStock, &h.Cost,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	return &h, nil
}

// SetStock escribe el nuevo saldo. Los productos solo admiten cantidades enteras.
func (r *StockRepo) SetStock(ctx context.Context, ref entity.StockRef, stock decimal.Decimal) error {
	var (
		query string
		arg   any
	)
	switch ref.Kind {
	case entity.StockKindProduct:
		if !stock.IsInteger() {
			return fmt.Errorf("%w: stock de producto no entero %s", domain.ErrInvalidInput, stock)
		}
		query = `UPDATE products SET stock = $1, updated_at = now() WHERE id = $2`
		arg = stock.IntPart()
	case entity.StockKindIngredient:
		query = `UPDATE ingredients SET stock = $1, updated_at = now() WHERE id = $2`
		arg = stock
	default:
		_, err := stockTable(ref.Kind)
		return err
	}
	tag, err := r.q.Exec(ctx, query, arg, ref.ID)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLow productos e insumos en o bajo su mínimo, o con saldo negativo.
func (r *StockRepo) ListLow(ctx context.Context, companyID string) ([]*entity.StockHolder, error) {
	if !validID(companyID) {
		return nil, nil
	}
	query := `
		SELECT kind, id, company_id, name, stock, min_stock, cost FROM (
			SELECT 'PRODUCT' AS kind, 0 AS ord, id, company_id, name,
			       stock::numeric AS stock, min_stock::numeric AS min_stock, cost
			FROM products
			WHERE company_id = $1 AND ((min_stock > 0 AND stock <= min_stock) OR stock < 0)
			UNION ALL
			SELECT 'INGREDIENT', 1, id, company_id, name, stock, min_stock, cost
			FROM ingredients
			WHERE company_id = $1 AND ((min_stock > 0 AND stock <= min_stock) OR stock < 0)
		) low
		ORDER BY ord, name, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockHolder, error) {
		var h entity.StockHolder
		if err := row.Scan(&h.Ref.Kind, &h.Ref.ID, &h.CompanyID, &h.Name, &h.Stock, &h.MinStock, &h.Cost); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		h.Integral = h.Ref.Kind == entity.StockKindProduct
		return &h, nil
	})
}
