// Package production orquesta corridas de producción: consume insumos según receta
// e ingresa el producto terminado en una sola transacción.
package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// ProduceInput pedido de producción.
type ProduceInput struct {
	ProductID string
	Quantity  int64
	CompanyID string
	UserID    string
}

// ProduceResult orden persistida y costo real consumido.
type ProduceResult struct {
	Order     *entity.ProductionOrder
	TotalCost decimal.Decimal
}

// ProduceUseCase caso de uso de producción.
type ProduceUseCase struct {
	tx      ports.TxRunner
	ledger  *inventory.StockLedger
	recipes *inventory.RecipeEngine
	audit   *audit.Recorder
	now     func() time.Time
}

// NewProduceUseCase construye el caso de uso.
func NewProduceUseCase(
	tx ports.TxRunner,
	ledger *inventory.StockLedger,
	recipes *inventory.RecipeEngine,
	recorder *audit.Recorder,
) *ProduceUseCase {
	return &ProduceUseCase{tx: tx, ledger: ledger, recipes: recipes, audit: recorder, now: time.Now}
}

// Produce descuenta los insumos de la receta, suma Quantity al producto terminado y registra la orden.
// Todo ocurre en una unidad de trabajo: si falta un insumo no queda nada escrito.
func (uc *ProduceUseCase) Produce(ctx context.Context, in ProduceInput) (*ProduceResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a producir debe ser un entero positivo", domain.ErrInvalidInput)
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}

	var result *ProduceResult
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		product, err := uow.Products().GetByID(ctx, in.CompanyID, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		if !product.IsPrepared() {
			return fmt.Errorf("%w: %q es SIMPLE, solo se producen productos PREPARED", domain.ErrInvalidInput, product.Name)
		}

		orderID := uuid.New().String()
		totalCost, err := uc.recipes.ExplodeAndDeduct(ctx, uow, inventory.ExplodeInput{
			ProductID:         product.ID,
			Quantity:          in.Quantity,
			CompanyID:         in.CompanyID,
			UserID:            in.UserID,
			ProductionOrderID: &orderID,
		})
		if err != nil {
			return err
		}

		qty := decimal.NewFromInt(in.Quantity)
		if _, err := uc.ledger.Apply(ctx, uow, inventory.AdjustInput{
			Ref:               entity.ProductRef(product.ID),
			CompanyID:         in.CompanyID,
			UserID:            in.UserID,
			Quantity:          qty,
			Type:              entity.MovementTypeProduction,
			Reason:            "Ingreso por producción",
			ProductionOrderID: &orderID,
		}); err != nil {
			return err
		}

		order := &entity.ProductionOrder{
			ID:        orderID,
			CompanyID: in.CompanyID,
			ProductID: product.ID,
			Quantity:  in.Quantity,
			TotalCost: totalCost,
			UnitCost:  totalCost.Div(qty),
			CreatedBy: in.UserID,
			CreatedAt: uc.now(),
		}
		if err := uow.ProductionOrders().Create(ctx, order); err != nil {
			return err
		}

		if err := uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  in.CompanyID,
			UserID:     in.UserID,
			Type:       entity.AuditProductionCompleted,
			Severity:   entity.SeverityInfo,
			EntityType: "PRODUCTION_ORDER",
			EntityID:   orderID,
			Metadata: map[string]any{
				"product_id": product.ID,
				"quantity":   in.Quantity,
				"total_cost": totalCost.String(),
				"unit_cost":  order.UnitCost.String(),
			},
		}); err != nil {
			return err
		}

		result = &ProduceResult{Order: order, TotalCost: totalCost}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List lista las órdenes de producción de la empresa, más recientes primero.
func (uc *ProduceUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductionOrderListResponse, error) {
	page.DefaultPage()
	var orders []*entity.ProductionOrder
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		orders, err = uow.ProductionOrders().ListByCompany(ctx, companyID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductionOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.ToProductionOrderResponse(o))
	}
	return &dto.ProductionOrderListResponse{Items: items, Page: page.Response()}, nil
}
