// seed carga el catálogo demo de cafetería en PostgreSQL y escribe un token por rol.
//
// Uso: go run ./cmd/seed [-company "Mi Café"]
// Requiere el esquema aplicado (go run ./cmd/migrate).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/demo"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/jwt"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

func main() {
	company := flag.String("company", "Cafetería Demo", "nombre de la empresa demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET es requerido para firmar los tokens demo")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, logger.Nop().Zerolog())
	cat, err := demo.Seed(ctx, tx, inventory.NewStockLedger(tx), *company)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar catálogo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Empresa %q: %s\n", *company, cat.CompanyID)
	skus := make([]string, 0, len(cat.Products))
	for sku := range cat.Products {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	for _, sku := range skus {
		fmt.Printf("  producto %-8s %s\n", sku, cat.Products[sku])
	}

	ttl := time.Duration(cfg.JWT.Expiration) * time.Minute
	for _, role := range []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor} {
		tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: "demo-" + role, CompanyID: cat.CompanyID, Role: role}, cfg.JWT.Issuer, ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %-9s Bearer %s\n", role, tok)
	}
}
