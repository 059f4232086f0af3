package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0 y se carga vía movimiento MANUAL.
type CreateProductRequest struct {
	SKU      string          `json:"sku" validate:"required,min=1,max=100"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Type     string          `json:"type" validate:"required,oneof=SIMPLE PREPARED"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	MinStock int64           `json:"min_stock" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Stock     int64           `json:"stock"`
	MinStock  int64           `json:"min_stock"`
	Cost      decimal.Decimal `json:"cost"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateIngredientRequest entrada para crear un insumo. Unit acepta código o alias ("kg", "litros").
type CreateIngredientRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Unit     string          `json:"unit" validate:"required"`
	MinStock decimal.Decimal `json:"min_stock"`
	Cost     decimal.Decimal `json:"cost"`
}

// IngredientResponse salida de un insumo.
type IngredientResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Stock     decimal.Decimal `json:"stock"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IngredientListResponse lista paginada de insumos.
type IngredientListResponse struct {
	Items []IngredientResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// AddRecipeLineRequest body para POST /api/recipes/:productId/lines.
type AddRecipeLineRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
}

// RecipeLineResponse línea de receta.
type RecipeLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// RecipeCostResponse costo de receta por unidad producida.
type RecipeCostResponse struct {
	ProductID string               `json:"product_id"`
	UnitCost  decimal.Decimal      `json:"unit_cost"`
	Lines     []RecipeLineResponse `json:"lines"`
}

// ToProductResponse mapea la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		SKU:       p.SKU,
		Name:      p.Name,
		Type:      p.Type,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		Cost:      p.Cost,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToIngredientResponse mapea la entidad a su salida HTTP.
func ToIngredientResponse(in *entity.Ingredient) *IngredientResponse {
	if in == nil {
		return nil
	}
	return &IngredientResponse{
		ID:        in.ID,
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Unit:      in.Unit.String(),
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		Cost:      in.Cost,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

// ToRecipeLineResponse mapea una línea de receta.
func ToRecipeLineResponse(l *entity.RecipeLine) RecipeLineResponse {
	return RecipeLineResponse{
		ID:           l.ID,
		ProductID:    l.ProductID,
		IngredientID: l.IngredientID,
		Quantity:     l.Quantity,
		Unit:         l.Unit.String(),
	}
}
