package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// CatalogUseCase alta y consulta de productos, insumos y recetas.
// Stock inicia en 0 y solo cambia vía movimientos del libro.
type CatalogUseCase struct {
	tx      ports.TxRunner
	recipes *RecipeEngine
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(tx ports.TxRunner, recipes *RecipeEngine) *CatalogUseCase {
	return &CatalogUseCase{tx: tx, recipes: recipes}
}

// CreateProduct crea un producto SIMPLE o PREPARED.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !entity.ValidProductType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.MinStock < 0 {
		return nil, fmt.Errorf("%w: precio, costo y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       in.SKU,
		Name:      in.Name,
		Type:      in.Type,
		MinStock:  in.MinStock,
		Cost:      in.Cost,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		return uow.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetProduct obtiene un producto de la empresa.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		product, err = uow.Products().GetByID(ctx, companyID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return dto.ToProductResponse(product), nil
}

// ListProducts lista productos por empresa con paginación.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	var list []*entity.Product
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		list, err = uow.Products().ListByCompany(ctx, companyID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: page.Response()}, nil
}

// CreateIngredient crea un insumo. La unidad se normaliza a su código ("kilos" -> KG).
func (uc *CatalogUseCase) CreateIngredient(ctx context.Context, companyID string, in dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	unit, err := units.Parse(in.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Cost.IsNegative() || in.MinStock.IsNegative() {
		return nil, fmt.Errorf("%w: costo y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	ingredient := &entity.Ingredient{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Unit:      unit,
		Stock:     decimal.Zero,
		MinStock:  in.MinStock,
		Cost:      in.Cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		return uow.Ingredients().Create(ctx, ingredient)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToIngredientResponse(ingredient), nil
}

// ListIngredients lista insumos por empresa con paginación.
func (uc *CatalogUseCase) ListIngredients(ctx context.Context, companyID string, page dto.PageRequest) (*dto.IngredientListResponse, error) {
	page.DefaultPage()
	var list []*entity.Ingredient
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		list, err = uow.Ingredients().ListByCompany(ctx, companyID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientResponse, 0, len(list))
	for _, in := range list {
		items = append(items, *dto.ToIngredientResponse(in))
	}
	return &dto.IngredientListResponse{Items: items, Page: page.Response()}, nil
}

// AddRecipeLine agrega un insumo a la receta de un producto PREPARED.
func (uc *CatalogUseCase) AddRecipeLine(ctx context.Context, companyID, productID string, in dto.AddRecipeLineRequest) (*dto.RecipeLineResponse, error) {
	unit, err := units.Parse(in.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	line := &entity.RecipeLine{
		CompanyID:    companyID,
		ProductID:    productID,
		IngredientID: in.IngredientID,
		Quantity:     in.Quantity,
		Unit:         unit,
	}
	err = uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		return uc.recipes.AddLine(ctx, uow, line)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToRecipeLineResponse(line)
	return &out, nil
}

// GetRecipeCost devuelve la receta y su costo por unidad al costo actual de los insumos.
func (uc *CatalogUseCase) GetRecipeCost(ctx context.Context, companyID, productID string) (*dto.RecipeCostResponse, error) {
	out := &dto.RecipeCostResponse{ProductID: productID}
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		product, err := uow.Products().GetByID(ctx, companyID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		cost, err := uc.recipes.UnitCost(ctx, uow, companyID, productID)
		if err != nil {
			return err
		}
		out.UnitCost = cost
		lines, err := uow.Recipes().ListByProduct(ctx, companyID, productID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			out.Lines = append(out.Lines, dto.ToRecipeLineResponse(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
