// Package demo carga un catálogo de cafetería listo para probar la API:
// una empresa, productos simples y preparados, insumos con stock y sus recetas.
// El stock inicial entra como movimientos MANUAL del libro, igual que una carga real.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// SeedUserID autor de los movimientos de carga inicial.
const SeedUserID = "seed"

// Catalog IDs generados, para imprimirlos o usarlos en tests.
type Catalog struct {
	CompanyID   string
	Products    map[string]string // SKU -> ID
	Ingredients map[string]string // nombre -> ID
}

type productSeed struct {
	sku, name, kind string
	stock, minStock int64
	cost, price     string
}

type ingredientSeed struct {
	name            string
	unit            units.Unit
	stock, minStock string
	cost            string
}

type recipeSeed struct {
	productSKU, ingredient string
	quantity               string
	unit                   units.Unit
}

var (
	demoProducts = []productSeed{
		{"GAL-001", "Galleta de avena", entity.ProductTypeSimple, 40, 10, "1200", "3500"},
		{"AGU-001", "Agua 600 ml", entity.ProductTypeSimple, 24, 6, "900", "2500"},
		{"LAT-001", "Latte", entity.ProductTypePrepared, 0, 0, "0", "9000"},
		{"AME-001", "Americano", entity.ProductTypePrepared, 0, 0, "0", "5000"},
	}
	demoIngredients = []ingredientSeed{
		{"Café en grano", units.Kilogram, "2", "0.5", "48000"},
		{"Leche entera", units.Liter, "10", "3", "4200"},
		{"Vaso 12 oz", units.Piece, "200", "50", "350"},
	}
	demoRecipes = []recipeSeed{
		{"LAT-001", "Café en grano", "18", units.Gram},
		{"LAT-001", "Leche entera", "200", units.Milliliter},
		{"LAT-001", "Vaso 12 oz", "1", units.Piece},
		{"AME-001", "Café en grano", "16", units.Gram},
		{"AME-001", "Vaso 12 oz", "1", units.Piece},
	}
)

// Seed crea la empresa companyName con el catálogo demo en una sola transacción.
func Seed(ctx context.Context, tx ports.TxRunner, ledger *inventory.StockLedger, companyName string) (*Catalog, error) {
	cat := &Catalog{
		CompanyID:   uuid.New().String(),
		Products:    make(map[string]string, len(demoProducts)),
		Ingredients: make(map[string]string, len(demoIngredients)),
	}
	now := time.Now().UTC()
	err := tx.Run(ctx, func(uow ports.UnitOfWork) error {
		if err := uow.Companies().Create(ctx, &entity.Company{
			ID:        cat.CompanyID,
			Name:      companyName,
			NIT:       "900" + cat.CompanyID[:6],
			Status:    entity.CompanyStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("empresa: %w", err)
		}

		for _, p := range demoProducts {
			id := uuid.New().String()
			if err := uow.Products().Create(ctx, &entity.Product{
				ID:        id,
				CompanyID: cat.CompanyID,
				SKU:       p.sku,
				Name:      p.name,
				Type:      p.kind,
				MinStock:  p.minStock,
				Cost:      decimal.RequireFromString(p.cost),
				Price:     decimal.RequireFromString(p.price),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("producto %s: %w", p.sku, err)
			}
			cat.Products[p.sku] = id
			if p.stock > 0 {
				if err := load(ctx, uow, ledger, cat.CompanyID, entity.ProductRef(id), decimal.NewFromInt(p.stock)); err != nil {
					return err
				}
			}
		}

		for _, in := range demoIngredients {
			id := uuid.New().String()
			if err := uow.Ingredients().Create(ctx, &entity.Ingredient{
				ID:        id,
				CompanyID: cat.CompanyID,
				Name:      in.name,
				Unit:      in.unit,
				MinStock:  decimal.RequireFromString(in.minStock),
				Cost:      decimal.RequireFromString(in.cost),
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("insumo %s: %w", in.name, err)
			}
			cat.Ingredients[in.name] = id
			if err := load(ctx, uow, ledger, cat.CompanyID, entity.IngredientRef(id), decimal.RequireFromString(in.stock)); err != nil {
				return err
			}
		}

		for _, r := range demoRecipes {
			if err := uow.Recipes().Create(ctx, &entity.RecipeLine{
				ID:           uuid.New().String(),
				CompanyID:    cat.CompanyID,
				ProductID:    cat.Products[r.productSKU],
				IngredientID: cat.Ingredients[r.ingredient],
				Quantity:     decimal.RequireFromString(r.quantity),
				Unit:         r.unit,
				CreatedAt:    now,
			}); err != nil {
				return fmt.Errorf("receta %s/%s: %w", r.productSKU, r.ingredient, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func load(ctx context.Context, uow ports.UnitOfWork, ledger *inventory.StockLedger, companyID string, ref entity.StockRef, qty decimal.Decimal) error {
	_, err := ledger.Apply(ctx, uow, inventory.AdjustInput{
		Ref:       ref,
		CompanyID: companyID,
		UserID:    SeedUserID,
		Quantity:  qty,
		Type:      entity.MovementTypeManual,
		Reason:    "Carga inicial",
	})
	if err != nil {
		return fmt.Errorf("carga inicial %s %s: %w", ref.Kind, ref.ID, err)
	}
	return nil
}
