package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos (solo inserción; un trigger impide UPDATE/DELETE).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, ingredient_id, user_id, type, quantity,
	stock_before, stock_after, reason, sale_id, production_order_id, created_at`

func scanMovement(row pgx.CollectableRow) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.IngredientID, &m.UserID, &m.Type, &m.Quantity,
		&m.StockBefore, &m.StockAfter, &m.Reason, &m.SaleID, &m.ProductionOrderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}

// Create registra un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.ProductID, m.IngredientID, m.UserID, m.Type, m.Quantity,
		m.StockBefore, m.StockAfter, m.Reason, m.SaleID, m.ProductionOrderID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListBySale movimientos generados por una venta, en orden de registro.
func (r *StockMovementRepo) ListBySale(ctx context.Context, companyID, saleID string) ([]*entity.StockMovement, error) {
	if !validID(companyID, saleID) {
		return nil, nil
	}
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE company_id = $1 AND sale_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, companyID, saleID)
	if err != nil {
		return nil, fmt.Errorf("list movements by sale: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, scanMovement)
}

// ListByRef historial de un producto o insumo, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByRef(ctx context.Context, companyID string, ref entity.StockRef, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if !validID(companyID, ref.ID) {
		return nil, nil
	}
	column := "product_id"
	if ref.Kind == entity.StockKindIngredient {
		column = "ingredient_id"
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 AND ` + column + ` = $2`
	args := []any{companyID, ref.ID}
	if from != nil {
		args = append(args, *from)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY created_at DESC, seq DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, scanMovement)
}
