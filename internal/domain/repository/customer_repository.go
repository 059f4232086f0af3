package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID busca el cliente dentro de la empresa; (nil, nil) si no existe o es de otro tenant.
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
	// ListByCompany ordenado por nombre.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
}
