package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo cabecera e ítems de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, customer_id, date, status, total_amount, total_cost,
	created_by, canceled_at, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &s.Date, &s.Status, &s.TotalAmount, &s.TotalCost,
		&s.CreatedBy, &s.CanceledAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera (los ítems van por CreateItem).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.CustomerID, s.Date, s.Status, s.TotalAmount, s.TotalCost,
		s.CreatedBy, s.CanceledAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.ID)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, base_cost, total_amount, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.BaseCost, it.TotalAmount, it.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, companyID, id, "")
}

// GetForUpdate bloquea la cabecera para serializar edición, anulación y borrado.
func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

func (r *SaleRepo) get(ctx context.Context, companyID, id, lock string) (*entity.Sale, error) {
	if !validID(id, companyID) {
		return nil, nil
	}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 AND company_id = $2` + lock
	s, err := scanSale(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, base_cost, total_amount, total_cost
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SaleItem, error) {
		var it entity.SaleItem
		err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.BaseCost, &it.TotalAmount, &it.TotalCost)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		return &it, nil
	})
}

// UpdateMetadata solo fecha y cliente; los importes no cambian tras la creación.
func (r *SaleRepo) UpdateMetadata(ctx context.Context, s *entity.Sale) error {
	query := `UPDATE sales SET date = $1, customer_id = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.q.Exec(ctx, query, s.Date, s.CustomerID, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status string, canceledAt *time.Time) error {
	query := `UPDATE sales SET status = $1, canceled_at = $2, updated_at = now() WHERE id = $3`
	tag, err := r.q.Exec(ctx, query, status, canceledAt, id)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// Delete borra la cabecera; los ítems caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// List ventas de la empresa filtradas por estado y rango de fechas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	if !validID(companyID) {
		return nil, nil
	}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1`
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += ` ORDER BY date DESC, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) {
		s, err := scanSale(row)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		return s, nil
	})
}
