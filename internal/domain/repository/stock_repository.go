package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// StockRepository puerto común de stock para productos e insumos.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// GetForUpdate lee el stock y bloquea la fila (SELECT FOR UPDATE) dentro de la tx activa.
	// Devuelve (nil, nil) si la entidad no existe o no pertenece a la empresa.
	GetForUpdate(ctx context.Context, ref entity.StockRef, companyID string) (*entity.StockHolder, error)
	SetStock(ctx context.Context, ref entity.StockRef, stock decimal.Decimal) error
	// ListLow lista productos e insumos con stock <= mínimo.
	ListLow(ctx context.Context, companyID string) ([]*entity.StockHolder, error)
}
