package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas e ítems.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID y GetForUpdate devuelven (nil, nil) si la venta no existe o es de otro tenant.
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	// UpdateMetadata solo toca fecha y cliente; los ítems son inmutables.
	UpdateMetadata(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id, status string, canceledAt *time.Time) error
	// Delete elimina la venta y sus ítems (no toca el libro de movimientos).
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, companyID string, filter SaleFilter) ([]*entity.Sale, error)
}
