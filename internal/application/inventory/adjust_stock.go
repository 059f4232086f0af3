package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/costing"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

const minReasonLength = 3

// AdjustStockInput ajuste manual de stock de un producto o insumo.
type AdjustStockInput struct {
	CompanyID string
	UserID    string
	EntityID  string
	Quantity  decimal.Decimal // con signo
	Type      string          // MANUAL o ADJUSTMENT (por defecto)
	Reason    string
	UnitCost  *decimal.Decimal
}

// AdjustStockUseCase ajustes manuales: carga inicial, correcciones, mermas.
type AdjustStockUseCase struct {
	tx     ports.TxRunner
	ledger *StockLedger
	audit  *audit.Recorder
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(tx ports.TxRunner, ledger *StockLedger, recorder *audit.Recorder) *AdjustStockUseCase {
	return &AdjustStockUseCase{tx: tx, ledger: ledger, audit: recorder}
}

// AdjustProductStock ajusta el stock de un producto. La cantidad debe ser entera.
func (uc *AdjustStockUseCase) AdjustProductStock(ctx context.Context, in AdjustStockInput) (*entity.StockMovement, error) {
	return uc.adjust(ctx, entity.ProductRef(in.EntityID), in)
}

// AdjustIngredientStock ajusta el stock de un insumo (cantidad en su unidad de stock).
func (uc *AdjustStockUseCase) AdjustIngredientStock(ctx context.Context, in AdjustStockInput) (*entity.StockMovement, error) {
	return uc.adjust(ctx, entity.IngredientRef(in.EntityID), in)
}

func (uc *AdjustStockUseCase) adjust(ctx context.Context, ref entity.StockRef, in AdjustStockInput) (*entity.StockMovement, error) {
	reason := strings.TrimSpace(in.Reason)
	if len([]rune(reason)) < minReasonLength {
		return nil, fmt.Errorf("%w: el motivo debe tener al menos %d caracteres", domain.ErrInvalidInput, minReasonLength)
	}
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser cero", domain.ErrInvalidInput)
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeAdjustment
	}
	if movType != entity.MovementTypeManual && movType != entity.MovementTypeAdjustment {
		return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, movType)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}

	var mov *entity.StockMovement
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		if in.UnitCost != nil && in.Quantity.IsPositive() {
			if err := uc.recost(ctx, uow, ref, in); err != nil {
				return err
			}
		}

		var err error
		mov, err = uc.ledger.Apply(ctx, uow, AdjustInput{
			Ref:       ref,
			CompanyID: in.CompanyID,
			UserID:    in.UserID,
			Quantity:  in.Quantity,
			Type:      movType,
			Reason:    reason,
		})
		if err != nil {
			return err
		}

		return uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  in.CompanyID,
			UserID:     in.UserID,
			Type:       entity.AuditStockAdjusted,
			Severity:   entity.SeverityInfo,
			EntityType: ref.Kind,
			EntityID:   ref.ID,
			Metadata: map[string]any{
				"movement_id":   mov.ID,
				"movement_type": movType,
				"quantity":      mov.Quantity.String(),
				"stock_before":  mov.StockBefore.String(),
				"stock_after":   mov.StockAfter.String(),
				"reason":        reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// recost aplica costo promedio ponderado sobre la fila ya bloqueada.
func (uc *AdjustStockUseCase) recost(ctx context.Context, uow ports.UnitOfWork, ref entity.StockRef, in AdjustStockInput) error {
	holder, err := uow.Stock().GetForUpdate(ctx, ref, in.CompanyID)
	if err != nil {
		return err
	}
	if holder == nil {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, strings.ToLower(ref.Kind), ref.ID)
	}
	newCost := costing.WeightedAverage(holder.Stock, holder.Cost, in.Quantity, *in.UnitCost)
	if ref.Kind == entity.StockKindProduct {
		return uow.Products().UpdateCost(ctx, ref.ID, newCost)
	}
	return uow.Ingredients().UpdateCost(ctx, ref.ID, newCost)
}
