// Package report expone consultas de solo lectura sobre el libro de movimientos.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// MovementFilter rango de fechas opcional y paginación.
type MovementFilter struct {
	From *time.Time
	To   *time.Time
	Page dto.PageRequest
}

// MovementQuery consultas del historial de stock.
type MovementQuery struct {
	tx ports.TxRunner
}

// NewMovementQuery construye las consultas.
func NewMovementQuery(tx ports.TxRunner) *MovementQuery {
	return &MovementQuery{tx: tx}
}

// ByProduct historial de un producto, más reciente primero.
func (q *MovementQuery) ByProduct(ctx context.Context, companyID, productID string, f MovementFilter) (*dto.MovementListResponse, error) {
	return q.byRef(ctx, companyID, entity.ProductRef(productID), f)
}

// ByIngredient historial de un insumo, más reciente primero.
func (q *MovementQuery) ByIngredient(ctx context.Context, companyID, ingredientID string, f MovementFilter) (*dto.MovementListResponse, error) {
	return q.byRef(ctx, companyID, entity.IngredientRef(ingredientID), f)
}

// BySale movimientos generados por una venta (venta, anulación y eliminación), en orden de escritura.
// La venta puede haber sido eliminada: sus movimientos siguen siendo consultables.
func (q *MovementQuery) BySale(ctx context.Context, companyID, saleID string) ([]dto.MovementResponse, error) {
	var list []*entity.StockMovement
	err := q.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		list, err = uow.Movements().ListBySale(ctx, companyID, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

func (q *MovementQuery) byRef(ctx context.Context, companyID string, ref entity.StockRef, f MovementFilter) (*dto.MovementListResponse, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	f.Page.DefaultPage()
	var list []*entity.StockMovement
	err := q.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		exists, err := q.exists(ctx, uow, companyID, ref)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s %s", domain.ErrNotFound, ref.Kind, ref.ID)
		}
		list, err = uow.Movements().ListByRef(ctx, companyID, ref, f.From, f.To, f.Page.Limit, f.Page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ToMovementList(list, f.Page), nil
}

// exists verifica pertenencia al tenant sin bloquear la fila.
func (q *MovementQuery) exists(ctx context.Context, uow ports.UnitOfWork, companyID string, ref entity.StockRef) (bool, error) {
	if ref.Kind == entity.StockKindProduct {
		p, err := uow.Products().GetByID(ctx, companyID, ref.ID)
		return p != nil, err
	}
	in, err := uow.Ingredients().GetByID(ctx, companyID, ref.ID)
	return in != nil, err
}
