package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/production"
)

// ProductionHandler órdenes de producción (protegido).
type ProductionHandler struct {
	uc *production.ProduceUseCase
}

func NewProductionHandler(uc *production.ProduceUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Produce godoc
// @Summary      Producir un producto preparado
// @Description  Descuenta los insumos de la receta y acredita el producto terminado en una sola transacción.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduceRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/production [post]
func (h *ProductionHandler) Produce(c *fiber.Ctx) error {
	var in dto.ProduceRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Produce(c.UserContext(), production.ProduceInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CompanyID: GetCompanyID(c),
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductionOrderResponse(res.Order))
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductionOrderListResponse
// @Router       /api/production [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
