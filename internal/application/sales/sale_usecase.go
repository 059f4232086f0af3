// Package sales orquesta el ciclo de vida de una venta: creación con descuento de stock,
// edición de metadatos, anulación con reintegro y eliminación.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/audit"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

const entitySale = "SALE"

// SaleItemInput línea pedida.
type SaleItemInput struct {
	ProductID string
	Quantity  int64
}

// UpsertSaleInput sin ID crea la venta; con ID edita solo fecha y cliente.
type UpsertSaleInput struct {
	ID         string
	Date       *time.Time
	CustomerID *string
	Items      []SaleItemInput
}

// SaleUseCase caso de uso de ventas.
type SaleUseCase struct {
	tx      ports.TxRunner
	ledger  *inventory.StockLedger
	recipes *inventory.RecipeEngine
	audit   *audit.Recorder
	now     func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	tx ports.TxRunner,
	ledger *inventory.StockLedger,
	recipes *inventory.RecipeEngine,
	recorder *audit.Recorder,
) *SaleUseCase {
	return &SaleUseCase{tx: tx, ledger: ledger, recipes: recipes, audit: recorder, now: time.Now}
}

// UpsertSale crea o edita una venta según venga o no el ID.
func (uc *SaleUseCase) UpsertSale(ctx context.Context, companyID, userID string, in UpsertSaleInput) (*entity.Sale, error) {
	if in.ID == "" {
		return uc.create(ctx, companyID, userID, in)
	}
	return uc.update(ctx, companyID, userID, in)
}

// create descuenta stock por cada ítem (directo o por receta), congela precio y costo,
// y persiste cabecera e ítems. Cualquier faltante revierte la venta completa.
func (uc *SaleUseCase) create(ctx context.Context, companyID, userID string, in UpsertSaleInput) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ítem %d requiere producto y cantidad entera positiva", domain.ErrInvalidInput, i+1)
		}
	}

	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		customerID, err := uc.resolveCustomer(ctx, uow, companyID, in.CustomerID)
		if err != nil {
			return err
		}

		now := uc.now()
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		sale = &entity.Sale{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			CustomerID:  customerID,
			Date:        date,
			Status:      entity.SaleStatusActive,
			TotalAmount: decimal.Zero,
			TotalCost:   decimal.Zero,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		for _, it := range in.Items {
			item, err := uc.sellItem(ctx, uow, sale, userID, it)
			if err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)
			sale.TotalAmount = sale.TotalAmount.Add(item.TotalAmount)
			sale.TotalCost = sale.TotalCost.Add(item.TotalCost)
		}

		if err := uow.Sales().Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := uow.Sales().CreateItem(ctx, item); err != nil {
				return err
			}
		}

		return uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  companyID,
			UserID:     userID,
			Type:       entity.AuditSaleCreated,
			Severity:   entity.SeverityInfo,
			EntityType: entitySale,
			EntityID:   sale.ID,
			Metadata: map[string]any{
				"items":        len(sale.Items),
				"total_amount": sale.TotalAmount.String(),
				"total_cost":   sale.TotalCost.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// sellItem descuenta el stock de un ítem y devuelve la línea con precio y costo congelados.
func (uc *SaleUseCase) sellItem(ctx context.Context, uow ports.UnitOfWork, sale *entity.Sale, userID string, it SaleItemInput) (*entity.SaleItem, error) {
	product, err := uow.Products().GetByID(ctx, sale.CompanyID, it.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
	}

	saleID := sale.ID
	qty := decimal.NewFromInt(it.Quantity)
	var baseCost decimal.Decimal
	if product.IsPrepared() {
		cost, err := uc.recipes.ExplodeAndDeduct(ctx, uow, inventory.ExplodeInput{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			CompanyID: sale.CompanyID,
			UserID:    userID,
			SaleID:    &saleID,
		})
		if err != nil {
			return nil, err
		}
		baseCost = cost.Div(qty)
	} else {
		if _, err := uc.ledger.Apply(ctx, uow, inventory.AdjustInput{
			Ref:       entity.ProductRef(product.ID),
			CompanyID: sale.CompanyID,
			UserID:    userID,
			Quantity:  qty.Neg(),
			Type:      entity.MovementTypeSale,
			Reason:    "Venta",
			SaleID:    &saleID,
		}); err != nil {
			return nil, err
		}
		baseCost = product.Cost
	}

	return &entity.SaleItem{
		ID:          uuid.New().String(),
		SaleID:      sale.ID,
		ProductID:   product.ID,
		Quantity:    it.Quantity,
		UnitPrice:   product.Price,
		BaseCost:    baseCost,
		TotalAmount: product.Price.Mul(qty),
		TotalCost:   baseCost.Mul(qty),
	}, nil
}

// update edita fecha y cliente. Los ítems no se pueden cambiar: para eso se anula y se crea otra venta.
func (uc *SaleUseCase) update(ctx context.Context, companyID, userID string, in UpsertSaleInput) (*entity.Sale, error) {
	if len(in.Items) > 0 {
		return nil, fmt.Errorf("%w: los ítems de una venta existente no se pueden modificar", domain.ErrInvalidInput)
	}

	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		sale, err = uow.Sales().GetForUpdate(ctx, companyID, in.ID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, in.ID)
		}

		changes := map[string]any{}
		if in.Date != nil {
			changes["date"] = in.Date.Format(time.RFC3339)
			sale.Date = *in.Date
		}
		if in.CustomerID != nil {
			customerID, err := uc.resolveCustomer(ctx, uow, companyID, in.CustomerID)
			if err != nil {
				return err
			}
			changes["customer_id"] = *in.CustomerID
			sale.CustomerID = customerID
		}
		sale.UpdatedAt = uc.now()
		if err := uow.Sales().UpdateMetadata(ctx, sale); err != nil {
			return err
		}
		if sale.Items, err = uow.Sales().GetItems(ctx, sale.ID); err != nil {
			return err
		}

		return uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  companyID,
			UserID:     userID,
			Type:       entity.AuditSaleUpdated,
			Severity:   entity.SeverityInfo,
			EntityType: entitySale,
			EntityID:   sale.ID,
			Metadata:   changes,
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale anula una venta activa y reintegra exactamente lo que se descontó al venderla
// (stock de productos SIMPLE e insumos de productos PREPARED).
func (uc *SaleUseCase) CancelSale(ctx context.Context, companyID, userID, saleID, reason string) (*entity.Sale, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Anulación de venta"
	}

	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		sale, err = uow.Sales().GetForUpdate(ctx, companyID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, saleID)
		}
		if sale.IsCanceled() {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyCanceled, saleID)
		}

		restored, err := uc.restock(ctx, uow, sale, userID, reason)
		if err != nil {
			return err
		}

		canceledAt := uc.now()
		if err := uow.Sales().UpdateStatus(ctx, sale.ID, entity.SaleStatusCanceled, &canceledAt); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusCanceled
		sale.CanceledAt = &canceledAt
		sale.UpdatedAt = canceledAt
		if sale.Items, err = uow.Sales().GetItems(ctx, sale.ID); err != nil {
			return err
		}

		return uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  companyID,
			UserID:     userID,
			Type:       entity.AuditSaleCanceled,
			Severity:   entity.SeverityWarning,
			EntityType: entitySale,
			EntityID:   sale.ID,
			Metadata: map[string]any{
				"reason":             reason,
				"movements_reversed": restored,
				"total_amount":       sale.TotalAmount.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteSale elimina la venta y sus ítems. Si seguía activa primero reintegra el stock.
// Los movimientos del libro conservan su referencia a la venta.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, companyID, userID, saleID string) error {
	return uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		sale, err := uow.Sales().GetForUpdate(ctx, companyID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, saleID)
		}

		restored := 0
		wasActive := !sale.IsCanceled()
		if wasActive {
			if restored, err = uc.restock(ctx, uow, sale, userID, "Eliminación de venta"); err != nil {
				return err
			}
		}
		if err := uow.Sales().Delete(ctx, sale.ID); err != nil {
			return err
		}

		return uc.audit.Record(ctx, uow, entity.AuditEvent{
			CompanyID:  companyID,
			UserID:     userID,
			Type:       entity.AuditSaleDeleted,
			Severity:   entity.SeverityWarning,
			EntityType: entitySale,
			EntityID:   sale.ID,
			Metadata: map[string]any{
				"was_active":         wasActive,
				"movements_reversed": restored,
				"total_amount":       sale.TotalAmount.String(),
				"total_cost":         sale.TotalCost.String(),
			},
		})
	})
}

// GetSale devuelve la venta con sus ítems.
func (uc *SaleUseCase) GetSale(ctx context.Context, companyID, saleID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		sale, err = uow.Sales().GetByID(ctx, companyID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, saleID)
		}
		sale.Items, err = uow.Sales().GetItems(ctx, sale.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales lista cabeceras de venta (sin ítems), más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, companyID string, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" && filter.Status != entity.SaleStatusActive && filter.Status != entity.SaleStatusCanceled {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	var list []*entity.Sale
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		list, err = uow.Sales().List(ctx, companyID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// restock genera un movimiento CANCEL opuesto por cada movimiento SALE de la venta.
func (uc *SaleUseCase) restock(ctx context.Context, uow ports.UnitOfWork, sale *entity.Sale, userID, reason string) (int, error) {
	movements, err := uow.Movements().ListBySale(ctx, sale.CompanyID, sale.ID)
	if err != nil {
		return 0, err
	}
	saleID := sale.ID
	n := 0
	for _, m := range movements {
		if m.Type != entity.MovementTypeSale {
			continue
		}
		if _, err := uc.ledger.Apply(ctx, uow, inventory.AdjustInput{
			Ref:       m.Ref(),
			CompanyID: sale.CompanyID,
			UserID:    userID,
			Quantity:  m.Quantity.Neg(),
			Type:      entity.MovementTypeCancel,
			Reason:    reason,
			SaleID:    &saleID,
		}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// resolveCustomer valida que el cliente pertenezca a la empresa. "" o nil quitan el cliente.
func (uc *SaleUseCase) resolveCustomer(ctx context.Context, uow ports.UnitOfWork, companyID string, customerID *string) (*string, error) {
	if customerID == nil || *customerID == "" {
		return nil, nil
	}
	customer, err := uow.Customers().GetByID(ctx, companyID, *customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *customerID)
	}
	id := customer.ID
	return &id, nil
}
