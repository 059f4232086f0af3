package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo órdenes de producción completadas.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const orderColumns = `id, company_id, product_id, quantity, total_cost, unit_cost, created_by, created_at`

func scanOrder(row pgx.Row) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	err := row.Scan(&o.ID, &o.CompanyID, &o.ProductID, &o.Quantity, &o.TotalCost, &o.UnitCost, &o.CreatedBy, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ProductionOrderRepo) Create(ctx context.Context, o *entity.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, o.ID, o.CompanyID, o.ProductID, o.Quantity, o.TotalCost, o.UnitCost, o.CreatedBy, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

func (r *ProductionOrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ProductionOrder, error) {
	if !validID(id, companyID) {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + ` FROM production_orders WHERE id = $1 AND company_id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return o, nil
}

// ListByCompany órdenes de la empresa, más recientes primero.
func (r *ProductionOrderRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProductionOrder, error) {
	if !validID(companyID) {
		return nil, nil
	}
	query := `
		SELECT ` + orderColumns + ` FROM production_orders
		WHERE company_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ProductionOrder, error) {
		return scanOrder(row)
	})
}
