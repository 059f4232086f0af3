package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// Ante un conflicto de serialización o deadlock repite la unidad de trabajo completa hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= r.maxRetries {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando transacción")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newUnitOfWork(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// unitOfWork repos atados a una misma pgx.Tx.
type unitOfWork struct {
	companies   *CompanyRepo
	customers   *CustomerRepo
	products    *ProductRepo
	ingredients *IngredientRepo
	recipes     *RecipeRepo
	stock       *StockRepo
	movements   *StockMovementRepo
	orders      *ProductionOrderRepo
	sales       *SaleRepo
	audit       *AuditRepo
}

func newUnitOfWork(tx pgx.Tx) *unitOfWork {
	return &unitOfWork{
		companies:   NewCompanyRepository(tx),
		customers:   NewCustomerRepository(tx),
		products:    NewProductRepository(tx),
		ingredients: NewIngredientRepository(tx),
		recipes:     NewRecipeRepository(tx),
		stock:       NewStockRepository(tx),
		movements:   NewStockMovementRepository(tx),
		orders:      NewProductionOrderRepository(tx),
		sales:       NewSaleRepository(tx),
		audit:       NewAuditRepository(tx),
	}
}

func (u *unitOfWork) Companies() repository.CompanyRepository     { return u.companies }
func (u *unitOfWork) Customers() repository.CustomerRepository     { return u.customers }
func (u *unitOfWork) Products() repository.ProductRepository       { return u.products }
func (u *unitOfWork) Ingredients() repository.IngredientRepository { return u.ingredients }
func (u *unitOfWork) Recipes() repository.RecipeRepository         { return u.recipes }
func (u *unitOfWork) Stock() repository.StockRepository            { return u.stock }
func (u *unitOfWork) Movements() repository.StockMovementRepository {
	return u.movements
}
func (u *unitOfWork) ProductionOrders() repository.ProductionOrderRepository {
	return u.orders
}
func (u *unitOfWork) Sales() repository.SaleRepository  { return u.sales }
func (u *unitOfWork) Audit() repository.AuditRepository { return u.audit }
