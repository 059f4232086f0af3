package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.CompanyRepository         = companyRepo{}
	_ repository.CustomerRepository        = customerRepo{}
	_ repository.ProductRepository         = productRepo{}
	_ repository.IngredientRepository      = ingredientRepo{}
	_ repository.RecipeRepository          = recipeRepo{}
	_ repository.StockRepository           = stockRepo{}
	_ repository.StockMovementRepository   = movementRepo{}
	_ repository.ProductionOrderRepository = productionOrderRepo{}
	_ repository.SaleRepository            = saleRepo{}
	_ repository.AuditRepository           = auditRepo{}
)

func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}

// ─── Company / Customer ─────────────────────────────────────────────────────

type companyRepo struct{ u *unitOfWork }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	if _, ok := r.u.st.companies[c.ID]; ok {
		return fmt.Errorf("%w: empresa %s", domain.ErrDuplicate, c.ID)
	}
	r.u.st.companies[c.ID] = *c
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.u.st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type customerRepo struct{ u *unitOfWork }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	for _, existing := range r.u.st.customers {
		if existing.ID == c.ID || (existing.CompanyID == c.CompanyID && c.TaxID != "" && existing.TaxID == c.TaxID) {
			return fmt.Errorf("%w: cliente %s", domain.ErrDuplicate, c.TaxID)
		}
	}
	r.u.st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	c, ok := r.u.st.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, c := range r.u.st.customers {
		if c.CompanyID == companyID {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

// ─── Product / Ingredient ───────────────────────────────────────────────────

type productRepo struct{ u *unitOfWork }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	for _, existing := range r.u.st.products {
		if existing.ID == p.ID || (existing.CompanyID == p.CompanyID && p.SKU != "" && existing.SKU == p.SKU) {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.SKU)
		}
	}
	r.u.st.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := r.u.st.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.u.st.products {
		if p.CompanyID == companyID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.u.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	r.u.st.products[id] = p
	return nil
}

type ingredientRepo struct{ u *unitOfWork }

func (r ingredientRepo) Create(_ context.Context, in *entity.Ingredient) error {
	if _, ok := r.u.st.ingredients[in.ID]; ok {
		return fmt.Errorf("%w: insumo %s", domain.ErrDuplicate, in.ID)
	}
	r.u.st.ingredients[in.ID] = *in
	return nil
}

func (r ingredientRepo) GetByID(_ context.Context, companyID, id string) (*entity.Ingredient, error) {
	in, ok := r.u.st.ingredients[id]
	if !ok || in.CompanyID != companyID {
		return nil, nil
	}
	return &in, nil
}

func (r ingredientRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Ingredient, error) {
	var list []*entity.Ingredient
	for _, in := range r.u.st.ingredients {
		if in.CompanyID == companyID {
			in := in
			list = append(list, &in)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r ingredientRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	in, ok := r.u.st.ingredients[id]
	if !ok {
		return domain.ErrNotFound
	}
	in.Cost = cost
	in.UpdatedAt = time.Now()
	r.u.st.ingredients[id] = in
	return nil
}

// ─── Recipe ─────────────────────────────────────────────────────────────────

type recipeRepo struct{ u *unitOfWork }

// Create rechaza un segundo renglón del mismo insumo para el producto, igual que uq_recipe_lines_product_ingredient.
func (r recipeRepo) Create(_ context.Context, line *entity.RecipeLine) error {
	for _, l := range r.u.st.recipes {
		if l.ID == line.ID || (l.ProductID == line.ProductID && l.IngredientID == line.IngredientID) {
			return fmt.Errorf("%w: insumo %s ya está en la receta de %s", domain.ErrDuplicate, line.IngredientID, line.ProductID)
		}
	}
	r.u.st.recipes = append(r.u.st.recipes, *line)
	return nil
}

func (r recipeRepo) ListByProduct(_ context.Context, companyID, productID string) ([]*entity.RecipeLine, error) {
	var lines []*entity.RecipeLine
	for _, l := range r.u.st.recipes {
		if l.CompanyID == companyID && l.ProductID == productID {
			l := l
			lines = append(lines, &l)
		}
	}
	return lines, nil
}

// ─── Stock ──────────────────────────────────────────────────────────────────

type stockRepo struct{ u *unitOfWork }

// GetForUpdate no necesita bloqueo adicional: la unidad de trabajo ya tiene el mutex del Store.
func (r stockRepo) GetForUpdate(_ context.Context, ref entity.StockRef, companyID string) (*entity.StockHolder, error) {
	switch ref.Kind {
	case entity.StockKindProduct:
		p, ok := r.u.st.products[ref.ID]
		if !ok || p.CompanyID != companyID {
			return nil, nil
		}
		return productHolder(p), nil
	case entity.StockKindIngredient:
		in, ok := r.u.st.ingredients[ref.ID]
		if !ok || in.CompanyID != companyID {
			return nil, nil
		}
		return ingredientHolder(in), nil
	}
	return nil, fmt.Errorf("%w: tipo de stock %q", domain.ErrInvalidInput, ref.Kind)
}

func (r stockRepo) SetStock(_ context.Context, ref entity.StockRef, stock decimal.Decimal) error {
	switch ref.Kind {
	case entity.StockKindProduct:
		p, ok := r.u.st.products[ref.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if !stock.IsInteger() {
			return fmt.Errorf("%w: stock de producto no entero %s", domain.ErrInvalidInput, stock)
		}
		p.Stock = stock.IntPart()
		p.UpdatedAt = time.Now()
		r.u.st.products[ref.ID] = p
		return nil
	case entity.StockKindIngredient:
		in, ok := r.u.st.ingredients[ref.ID]
		if !ok {
			return domain.ErrNotFound
		}
		in.Stock = stock
		in.UpdatedAt = time.Now()
		r.u.st.ingredients[ref.ID] = in
		return nil
	}
	return fmt.Errorf("%w: tipo de stock %q", domain.ErrInvalidInput, ref.Kind)
}

func (r stockRepo) ListLow(_ context.Context, companyID string) ([]*entity.StockHolder, error) {
	var list []*entity.StockHolder
	for _, p := range r.u.st.products {
		if h := productHolder(p); p.CompanyID == companyID && h.IsLow() {
			list = append(list, h)
		}
	}
	for _, in := range r.u.st.ingredients {
		if h := ingredientHolder(in); in.CompanyID == companyID && h.IsLow() {
			list = append(list, h)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Ref.Kind != list[j].Ref.Kind {
			return list[i].Ref.Kind > list[j].Ref.Kind
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func productHolder(p entity.Product) *entity.StockHolder {
	return &entity.StockHolder{
		Ref:       entity.ProductRef(p.ID),
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Stock:     decimal.NewFromInt(p.Stock),
		MinStock:  decimal.NewFromInt(p.MinStock),
		Cost:      p.Cost,
		Integral:  true,
	}
}

func ingredientHolder(in entity.Ingredient) *entity.StockHolder {
	return &entity.StockHolder{
		Ref:       entity.IngredientRef(in.ID),
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		Cost:      in.Cost,
	}
}

// ─── Movements ──────────────────────────────────────────────────────────────

type movementRepo struct{ u *unitOfWork }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.u.movWrites++
	if n := r.u.store.failAfter; n > 0 && r.u.movWrites >= n {
		return fmt.Errorf("insert stock movement: fallo simulado en escritura %d", r.u.movWrites)
	}
	r.u.st.movements = append(r.u.st.movements, *m)
	return nil
}

func (r movementRepo) ListBySale(_ context.Context, companyID, saleID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.u.st.movements {
		if m.CompanyID == companyID && m.SaleID != nil && *m.SaleID == saleID {
			m := m
			list = append(list, &m)
		}
	}
	return list, nil
}

// ListByRef devuelve del más reciente al más antiguo.
func (r movementRepo) ListByRef(_ context.Context, companyID string, ref entity.StockRef, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.u.st.movements) - 1; i >= 0; i-- {
		m := r.u.st.movements[i]
		if m.CompanyID != companyID || m.Ref() != ref {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		list = append(list, &m)
	}
	lo, hi := page(len(list), limit, offset)
	return list[lo:hi], nil
}

// ─── Production orders ──────────────────────────────────────────────────────

type productionOrderRepo struct{ u *unitOfWork }

func (r productionOrderRepo) Create(_ context.Context, o *entity.ProductionOrder) error {
	r.u.st.orders = append(r.u.st.orders, *o)
	return nil
}

func (r productionOrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.ProductionOrder, error) {
	for _, o := range r.u.st.orders {
		if o.ID == id && o.CompanyID == companyID {
			return &o, nil
		}
	}
	return nil, nil
}

func (r productionOrderRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.ProductionOrder, error) {
	var list []*entity.ProductionOrder
	for i := len(r.u.st.orders) - 1; i >= 0; i-- {
		o := r.u.st.orders[i]
		if o.CompanyID == companyID {
			list = append(list, &o)
		}
	}
	lo, hi := page(len(list), limit, offset)
	return list[lo:hi], nil
}

// ─── Sales ──────────────────────────────────────────────────────────────────

type saleRepo struct{ u *unitOfWork }

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if _, ok := r.u.st.sales[s.ID]; ok {
		return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.ID)
	}
	header := *s
	header.Items = nil
	r.u.st.sales[s.ID] = header
	return nil
}

func (r saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	if _, ok := r.u.st.sales[item.SaleID]; !ok {
		return fmt.Errorf("insert sale item: %w", domain.ErrSaleNotFound)
	}
	r.u.st.saleItems = append(r.u.st.saleItems, *item)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	s, ok := r.u.st.sales[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	return &s, nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r saleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var items []*entity.SaleItem
	for _, it := range r.u.st.saleItems {
		if it.SaleID == saleID {
			it := it
			items = append(items, &it)
		}
	}
	return items, nil
}

func (r saleRepo) UpdateMetadata(_ context.Context, s *entity.Sale) error {
	cur, ok := r.u.st.sales[s.ID]
	if !ok {
		return domain.ErrSaleNotFound
	}
	cur.Date = s.Date
	cur.CustomerID = s.CustomerID
	cur.UpdatedAt = s.UpdatedAt
	r.u.st.sales[s.ID] = cur
	return nil
}

func (r saleRepo) UpdateStatus(_ context.Context, id, status string, canceledAt *time.Time) error {
	cur, ok := r.u.st.sales[id]
	if !ok {
		return domain.ErrSaleNotFound
	}
	cur.Status = status
	cur.CanceledAt = canceledAt
	cur.UpdatedAt = time.Now()
	r.u.st.sales[id] = cur
	return nil
}

func (r saleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.u.st.sales[id]; !ok {
		return domain.ErrSaleNotFound
	}
	delete(r.u.st.sales, id)
	kept := r.u.st.saleItems[:0:0]
	for _, it := range r.u.st.saleItems {
		if it.SaleID != id {
			kept = append(kept, it)
		}
	}
	r.u.st.saleItems = kept
	return nil
}

func (r saleRepo) List(_ context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	var list []*entity.Sale
	for _, s := range r.u.st.sales {
		if s.CompanyID != companyID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && s.Date.After(*f.To) {
			continue
		}
		s := s
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	lo, hi := page(len(list), f.Limit, f.Offset)
	return list[lo:hi], nil
}

// ─── Audit ──────────────────────────────────────────────────────────────────

type auditRepo struct{ u *unitOfWork }

func (r auditRepo) Create(_ context.Context, e *entity.AuditEvent) error {
	if err := r.u.store.auditErr; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	r.u.st.audit = append(r.u.st.audit, *e)
	return nil
}
