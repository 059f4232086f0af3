package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// ExplodeInput pedido de explosión de receta. SaleID marca el consumo como venta;
// sin SaleID el consumo se registra como producción (ProductionOrderID opcional).
type ExplodeInput struct {
	ProductID         string
	Quantity          int64
	CompanyID         string
	UserID            string
	SaleID            *string
	ProductionOrderID *string
}

// RecipeEngine descuenta los insumos de un producto PREPARED según su receta (BOM)
// y calcula el costo real consumido.
type RecipeEngine struct {
	ledger *StockLedger
}

// NewRecipeEngine construye el motor de recetas sobre el libro de stock.
func NewRecipeEngine(ledger *StockLedger) *RecipeEngine {
	return &RecipeEngine{ledger: ledger}
}

// ExplodeAndDeduct descuenta quantity unidades del producto de cada insumo de la receta y devuelve
// el costo real total. Cualquier fallo aborta la explosión completa; el llamador revierte uow.
func (e *RecipeEngine) ExplodeAndDeduct(ctx context.Context, uow ports.UnitOfWork, in ExplodeInput) (decimal.Decimal, error) {
	if in.Quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	lines, err := e.recipe(ctx, uow, in.CompanyID, in.ProductID)
	if err != nil {
		return decimal.Zero, err
	}

	movType := entity.MovementTypeProduction
	reason := "Consumo por producción"
	if in.SaleID != nil {
		movType = entity.MovementTypeSale
		reason = "Consumo por venta"
	}

	qty := decimal.NewFromInt(in.Quantity)
	total := decimal.Zero
	for _, line := range lines {
		ref := entity.IngredientRef(line.IngredientID)
		holder, err := uow.Stock().GetForUpdate(ctx, ref, in.CompanyID)
		if err != nil {
			return decimal.Zero, err
		}
		ingredient, err := uow.Ingredients().GetByID(ctx, in.CompanyID, line.IngredientID)
		if err != nil {
			return decimal.Zero, err
		}
		if holder == nil || ingredient == nil {
			return decimal.Zero, fmt.Errorf("%w: insumo %s de la receta", domain.ErrNotFound, line.IngredientID)
		}

		converted, err := units.Convert(line.Quantity.Mul(qty), line.Unit, ingredient.Unit)
		if err != nil {
			return decimal.Zero, fmt.Errorf("receta de %s, insumo %q: %w", in.ProductID, ingredient.Name, err)
		}

		// Consumos bajo la precisión del libro (StockScale) no mueven el contador, pero sí cuestan.
		total = total.Add(converted.Mul(holder.Cost))
		if converted.Round(entity.StockScale).IsZero() {
			continue
		}
		if _, err := e.ledger.Apply(ctx, uow, AdjustInput{
			Ref:               ref,
			CompanyID:         in.CompanyID,
			UserID:            in.UserID,
			Quantity:          converted.Neg(),
			Type:              movType,
			Reason:            reason,
			SaleID:            in.SaleID,
			ProductionOrderID: in.ProductionOrderID,
		}); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}

// UnitCost costo de receta de una unidad del producto, sin descontar stock.
func (e *RecipeEngine) UnitCost(ctx context.Context, uow ports.UnitOfWork, companyID, productID string) (decimal.Decimal, error) {
	lines, err := e.recipe(ctx, uow, companyID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		ingredient, err := uow.Ingredients().GetByID(ctx, companyID, line.IngredientID)
		if err != nil {
			return decimal.Zero, err
		}
		if ingredient == nil {
			return decimal.Zero, fmt.Errorf("%w: insumo %s de la receta", domain.ErrNotFound, line.IngredientID)
		}
		cost, err := units.RealCost(line.Quantity, line.Unit, ingredient.Unit, ingredient.Cost)
		if err != nil {
			return decimal.Zero, fmt.Errorf("receta de %s, insumo %q: %w", productID, ingredient.Name, err)
		}
		total = total.Add(cost)
	}
	return total, nil
}

// AddLine agrega una línea a la receta de un producto PREPARED.
// La unidad de la línea debe ser de la misma familia que la unidad de stock del insumo.
func (e *RecipeEngine) AddLine(ctx context.Context, uow ports.UnitOfWork, line *entity.RecipeLine) error {
	if !line.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad de la receta debe ser positiva", domain.ErrInvalidInput)
	}
	if !line.Unit.Valid() {
		return fmt.Errorf("%w: %q", units.ErrUnknownUnit, line.Unit)
	}
	product, err := uow.Products().GetByID(ctx, line.CompanyID, line.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
	}
	if !product.IsPrepared() {
		return fmt.Errorf("%w: solo los productos PREPARED tienen receta", domain.ErrInvalidInput)
	}
	ingredient, err := uow.Ingredients().GetByID(ctx, line.CompanyID, line.IngredientID)
	if err != nil {
		return err
	}
	if ingredient == nil {
		return fmt.Errorf("%w: insumo %s", domain.ErrNotFound, line.IngredientID)
	}
	if !units.SameFamily(line.Unit, ingredient.Unit) {
		return fmt.Errorf("%w: receta en %s, insumo %q en %s",
			units.ErrIncompatibleUnitFamily, line.Unit, ingredient.Name, ingredient.Unit)
	}
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}
	return uow.Recipes().Create(ctx, line)
}

// recipe carga las líneas ordenadas por insumo para que dos transacciones concurrentes
// bloqueen las filas siempre en el mismo orden.
func (e *RecipeEngine) recipe(ctx context.Context, uow ports.UnitOfWork, companyID, productID string) ([]*entity.RecipeLine, error) {
	lines, err := uow.Recipes().ListByProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrRecipeNotConfigured, productID)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].IngredientID < lines[j].IngredientID })
	return lines, nil
}
