package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AdjustInput describe un cambio de stock con signo sobre un producto o insumo.
type AdjustInput struct {
	Ref               entity.StockRef
	CompanyID         string
	UserID            string
	Quantity          decimal.Decimal // positivo entrada, negativo salida
	Type              string
	Reason            string
	SaleID            *string
	ProductionOrderID *string
}

// StockLedger es el único camino para modificar stock: cada cambio deja un movimiento inmutable
// con el stock antes y después, escrito en la misma transacción que el contador.
type StockLedger struct {
	tx  ports.TxRunner
	now func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(tx ports.TxRunner) *StockLedger {
	return &StockLedger{tx: tx, now: time.Now}
}

// Adjust aplica el movimiento en su propia unidad de trabajo.
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		mov, err = l.Apply(ctx, uow, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Apply bloquea la fila (SELECT FOR UPDATE), valida la política de stock negativo de la empresa,
// actualiza el contador y registra el movimiento. Ante error el llamador debe revertir uow.
func (l *StockLedger) Apply(ctx context.Context, uow ports.UnitOfWork, in AdjustInput) (*entity.StockMovement, error) {
	if !in.Ref.Valid() || in.CompanyID == "" {
		return nil, fmt.Errorf("%w: referencia de stock incompleta", domain.ErrInvalidInput)
	}
	in.Quantity = in.Quantity.Round(entity.StockScale)
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser cero", domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}

	company, err := uow.Companies().GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, in.CompanyID)
	}

	holder, err := uow.Stock().GetForUpdate(ctx, in.Ref, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, strings.ToLower(in.Ref.Kind), in.Ref.ID)
	}
	if holder.Integral && !in.Quantity.IsInteger() {
		return nil, fmt.Errorf("%w: el stock de %q solo admite cantidades enteras", domain.ErrInvalidInput, holder.Name)
	}

	// Sin la política, ningún movimiento puede dejar saldo negativo, sea cual sea su signo.
	after := holder.Stock.Add(in.Quantity)
	if after.IsNegative() && !company.AllowNegativeStock {
		return nil, fmt.Errorf("%w: %q disponible %s, movimiento %s, saldo resultante %s",
			domain.ErrInsufficientStock, holder.Name, holder.Stock, in.Quantity, after)
	}

	if err := uow.Stock().SetStock(ctx, in.Ref, after); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		CompanyID:         in.CompanyID,
		UserID:            in.UserID,
		Type:              in.Type,
		Quantity:          in.Quantity,
		StockBefore:       holder.Stock,
		StockAfter:        after,
		Reason:            in.Reason,
		SaleID:            in.SaleID,
		ProductionOrderID: in.ProductionOrderID,
		CreatedAt:         l.now(),
	}
	id := in.Ref.ID
	if in.Ref.Kind == entity.StockKindProduct {
		mov.ProductID = &id
	} else {
		mov.IngredientID = &id
	}
	if err := uow.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
