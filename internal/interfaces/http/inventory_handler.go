package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// InventoryHandler ajustes manuales, historial de movimientos y alertas de stock (protegido).
type InventoryHandler struct {
	adjust    *inventory.AdjustStockUseCase
	alerts    *inventory.StockAlertUseCase
	movements *report.MovementQuery
}

type adjustFunc func(ctx context.Context, in inventory.AdjustStockInput) (*entity.StockMovement, error)

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, alerts *inventory.StockAlertUseCase, movements *report.MovementQuery) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, alerts: alerts, movements: movements}
}

// AdjustProduct godoc
// @Summary      Ajustar stock de un producto
// @Description  Cantidad con signo. MANUAL para cargas, ADJUSTMENT (por defecto) para correcciones y mermas.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity, type, reason, unit_cost"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/adjust [post]
func (h *InventoryHandler) AdjustProduct(c *fiber.Ctx) error {
	return h.adjustStock(c, h.adjust.AdjustProductStock)
}

// AdjustIngredient godoc
// @Summary      Ajustar stock de un insumo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del insumo"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity en la unidad de stock del insumo"
// @Success      201   {object}  dto.MovementResponse
// @Router       /api/inventory/ingredients/{id}/adjust [post]
func (h *InventoryHandler) AdjustIngredient(c *fiber.Ctx) error {
	return h.adjustStock(c, h.adjust.AdjustIngredientStock)
}

func (h *InventoryHandler) adjustStock(c *fiber.Ctx, apply adjustFunc) error {
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	mov, err := apply(c.UserContext(), inventory.AdjustStockInput{
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
		EntityID:  c.Params("id"),
		Quantity:  in.Quantity,
		Type:      in.Type,
		Reason:    in.Reason,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// ProductMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	f, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.movements.ByProduct(c.UserContext(), GetCompanyID(c), c.Params("id"), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// IngredientMovements godoc
// @Summary      Historial de movimientos de un insumo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/ingredients/{id}/movements [get]
func (h *InventoryHandler) IngredientMovements(c *fiber.Ctx) error {
	f, err := movementFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.movements.ByIngredient(c.UserContext(), GetCompanyID(c), c.Params("id"), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Description  Productos e insumos en o por debajo de su mínimo, con cantidad sugerida de reposición.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	list, err := h.alerts.ListLowStock(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}

func movementFilter(c *fiber.Ctx) (report.MovementFilter, error) {
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return report.MovementFilter{}, err
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return report.MovementFilter{}, err
	}
	return report.MovementFilter{From: from, To: to, Page: page}, nil
}
