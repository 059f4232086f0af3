package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/report"
	"github.com/jhoicas/inventory-ledger/internal/application/sales"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// HeaderIdempotencyKey clave opcional del cliente para no duplicar una venta al reintentar.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler ventas (protegido).
type SaleHandler struct {
	uc        *sales.SaleUseCase
	creator   *sales.IdempotentCreator
	movements *report.MovementQuery
}

func NewSaleHandler(uc *sales.SaleUseCase, creator *sales.IdempotentCreator, movements *report.MovementQuery) *SaleHandler {
	return &SaleHandler{uc: uc, creator: creator, movements: movements}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de productos simples y explota recetas de preparados. Todo o nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "date, customer_id, items"
// @Success      201  {object}  dto.SaleResponse
// @Success      200  {object}  dto.SaleResponse  "Repetición de una clave ya procesada"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	items := make([]sales.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	sale, replayed, err := h.creator.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), key, sales.UpsertSaleInput{
		Date:       in.Date,
		CustomerID: in.CustomerID,
		Items:      items,
	})
	if err != nil {
		return respondError(c, err)
	}
	if replayed {
		c.Set("Idempotent-Replayed", "true")
		return c.JSON(dto.ToSaleResponse(sale))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(sale))
}

// Update godoc
// @Summary      Editar fecha o cliente de una venta
// @Description  Los ítems no son editables; enviarlos es un error de validación.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "date, customer_id"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	items := make([]sales.SaleItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	sale, err := h.uc.UpsertSale(c.UserContext(), GetCompanyID(c), GetUserID(c), sales.UpsertSaleInput{
		ID:         c.Params("id"),
		Date:       in.Date,
		CustomerID: in.CustomerID,
		Items:      items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// Get godoc
// @Summary      Obtener venta con sus ítems
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ACTIVE o CANCELED"
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRangeFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListSales(c.UserContext(), GetCompanyID(c), repository.SaleFilter{
		Status: strings.ToUpper(c.Query("status")),
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Page: page.Response()}
	for _, s := range list {
		out.Items = append(out.Items, *dto.ToSaleResponse(s))
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos de stock generados por una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/sales/{id}/movements [get]
func (h *SaleHandler) Movements(c *fiber.Ctx) error {
	list, err := h.movements.BySale(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Reintegra el stock de cada movimiento de la venta y la marca CANCELED.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  false  "reason"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	sale, err := h.uc.CancelSale(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Reintegra el stock si estaba activa. El historial de movimientos se conserva.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	if err := h.uc.DeleteSale(c.UserContext(), GetCompanyID(c), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
