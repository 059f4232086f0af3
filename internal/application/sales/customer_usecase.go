package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CustomerUseCase clientes opcionales de una venta.
type CustomerUseCase struct {
	tx ports.TxRunner
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(tx ports.TxRunner) *CustomerUseCase {
	return &CustomerUseCase{tx: tx}
}

// Create crea un cliente. El NIT/cédula, si viene, es único por empresa.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		return uow.Customers().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToCustomerResponse(customer)
	return &out, nil
}

// List lista clientes de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	var list []*entity.Customer
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		list, err = uow.Customers().ListByCompany(ctx, companyID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{Items: make([]dto.CustomerResponse, 0, len(list)), Page: page.Response()}
	for _, c := range list {
		out.Items = append(out.Items, dto.ToCustomerResponse(c))
	}
	return out, nil
}
