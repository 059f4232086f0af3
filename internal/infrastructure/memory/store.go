// Package memory implementa la unidad de trabajo en memoria.
// Cada Run trabaja sobre una copia del estado; si fn falla la copia se descarta (rollback),
// si no, reemplaza al estado confirmado (commit). Las unidades de trabajo se serializan con un mutex.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

type state struct {
	companies   map[string]entity.Company
	customers   map[string]entity.Customer
	products    map[string]entity.Product
	ingredients map[string]entity.Ingredient
	recipes     []entity.RecipeLine
	movements   []entity.StockMovement
	orders      []entity.ProductionOrder
	sales       map[string]entity.Sale
	saleItems   []entity.SaleItem
	audit       []entity.AuditEvent
}

func newState() *state {
	return &state{
		companies:   map[string]entity.Company{},
		customers:   map[string]entity.Customer{},
		products:    map[string]entity.Product{},
		ingredients: map[string]entity.Ingredient{},
		sales:       map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.ingredients {
		c.ingredients[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	c.recipes = append([]entity.RecipeLine(nil), s.recipes...)
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.orders = append([]entity.ProductionOrder(nil), s.orders...)
	c.saleItems = append([]entity.SaleItem(nil), s.saleItems...)
	c.audit = append([]entity.AuditEvent(nil), s.audit...)
	return c
}

// Store estado en memoria con semántica transaccional.
type Store struct {
	mu        sync.Mutex
	data      *state
	auditErr  error
	failAfter int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

var _ ports.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado y la confirma solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(uow ports.UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	if err := fn(&unitOfWork{st: work, store: s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// FailAudit hace que las escrituras de auditoría devuelvan err (nil restablece).
func (s *Store) FailAudit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// FailMovementsAfter hace fallar la escritura de movimientos a partir de la n-ésima dentro de una unidad de trabajo
// (0 desactiva). Sirve para comprobar que un fallo a mitad de operación no deja escrituras parciales.
func (s *Store) FailMovementsAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
}

// AuditEvents devuelve los eventos confirmados, en orden de escritura.
func (s *Store) AuditEvents() []entity.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditEvent(nil), s.data.audit...)
}

// Movements devuelve todos los movimientos confirmados, en orden de escritura.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.data.movements...)
}

type unitOfWork struct {
	st        *state
	store     *Store
	movWrites int
}

func (u *unitOfWork) Companies() repository.CompanyRepository { return companyRepo{u} }
func (u *unitOfWork) Customers() repository.CustomerRepository { return customerRepo{u} }
func (u *unitOfWork) Products() repository.ProductRepository   { return productRepo{u} }
func (u *unitOfWork) Ingredients() repository.IngredientRepository {
	return ingredientRepo{u}
}
func (u *unitOfWork) Recipes() repository.RecipeRepository { return recipeRepo{u} }
func (u *unitOfWork) Stock() repository.StockRepository    { return stockRepo{u} }
func (u *unitOfWork) Movements() repository.StockMovementRepository {
	return movementRepo{u}
}
func (u *unitOfWork) ProductionOrders() repository.ProductionOrderRepository {
	return productionOrderRepo{u}
}
func (u *unitOfWork) Sales() repository.SaleRepository  { return saleRepo{u} }
func (u *unitOfWork) Audit() repository.AuditRepository { return auditRepo{u} }
