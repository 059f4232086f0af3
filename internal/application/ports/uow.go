package ports

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// UnitOfWork agrupa los repositorios atados a una misma transacción.
// Todo lo escrito a través de ellos se confirma o se descarta en bloque.
type UnitOfWork interface {
	Companies() repository.CompanyRepository
	Customers() repository.CustomerRepository
	Products() repository.ProductRepository
	Ingredients() repository.IngredientRepository
	Recipes() repository.RecipeRepository
	Stock() repository.StockRepository
	Movements() repository.StockMovementRepository
	ProductionOrders() repository.ProductionOrderRepository
	Sales() repository.SaleRepository
	Audit() repository.AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD.
// Commit si fn devuelve nil, Rollback en cualquier otro caso (incluido ctx cancelado).
// La implementación puede reintentar fn completa ante conflictos de serialización,
// por lo que fn no debe tener efectos fuera de la unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow UnitOfWork) error) error
}
