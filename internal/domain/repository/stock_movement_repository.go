package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// StockMovementRepository puerto del libro de movimientos. Solo inserción: no existe Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListBySale(ctx context.Context, companyID, saleID string) ([]*entity.StockMovement, error)
	ListByRef(ctx context.Context, companyID string, ref entity.StockRef, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
