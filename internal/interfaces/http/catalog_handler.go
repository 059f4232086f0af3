package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
)

// CatalogHandler productos, insumos y recetas (protegido).
type CatalogHandler struct {
	uc *inventory.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *inventory.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateProduct(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProduct godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProduct(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListProducts(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateIngredient godoc
// @Summary      Crear insumo
// @Tags         ingredients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIngredientRequest  true  "name, unit (KG, L, UNIT o alias), min_stock, cost"
// @Success      201   {object}  dto.IngredientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ingredients [post]
func (h *CatalogHandler) CreateIngredient(c *fiber.Ctx) error {
	var in dto.CreateIngredientRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateIngredient(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListIngredients godoc
// @Summary      Listar insumos
// @Tags         ingredients
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IngredientListResponse
// @Router       /api/ingredients [get]
func (h *CatalogHandler) ListIngredients(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListIngredients(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddRecipeLine godoc
// @Summary      Agregar insumo a la receta de un producto preparado
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                    true  "ID del producto PREPARED"
// @Param        body       body  dto.AddRecipeLineRequest  true  "ingredient_id, quantity, unit"
// @Success      201  {object}  dto.RecipeLineResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recipes/{productId}/lines [post]
func (h *CatalogHandler) AddRecipeLine(c *fiber.Ctx) error {
	var in dto.AddRecipeLineRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddRecipeLine(c.UserContext(), GetCompanyID(c), c.Params("productId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecipeCost godoc
// @Summary      Costo de receta por unidad
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto PREPARED"
// @Success      200  {object}  dto.RecipeCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recipes/{productId}/cost [get]
func (h *CatalogHandler) RecipeCost(c *fiber.Ctx) error {
	out, err := h.uc.GetRecipeCost(c.UserContext(), GetCompanyID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
