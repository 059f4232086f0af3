package memory

import "github.com/jhoicas/inventory-ledger/internal/domain/entity"

// Seed* cargan entidades directamente en el estado confirmado, sin pasar por el libro.
// Pensados para pruebas y para el modo demo de la API.

func (s *Store) SeedCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.companies[c.ID] = c
}

func (s *Store) SeedCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.customers[c.ID] = c
}

func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = p
}

func (s *Store) SeedIngredient(in entity.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ingredients[in.ID] = in
}

func (s *Store) SeedRecipeLine(l entity.RecipeLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.recipes = append(s.data.recipes, l)
}

// Product devuelve el estado confirmado de un producto.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	return p, ok
}

// Ingredient devuelve el estado confirmado de un insumo.
func (s *Store) Ingredient(id string) (entity.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.data.ingredients[id]
	return in, ok
}

// Sale devuelve la cabecera confirmada de una venta.
func (s *Store) Sale(id string) (entity.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.data.sales[id]
	return sale, ok
}

// SaleItems devuelve los ítems confirmados de una venta.
func (s *Store) SaleItems(saleID string) []entity.SaleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []entity.SaleItem
	for _, it := range s.data.saleItems {
		if it.SaleID == saleID {
			items = append(items, it)
		}
	}
	return items
}

// ProductionOrders devuelve las órdenes confirmadas, en orden de escritura.
func (s *Store) ProductionOrders() []entity.ProductionOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ProductionOrder(nil), s.data.orders...)
}
