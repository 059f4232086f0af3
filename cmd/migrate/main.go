// migrate aplica o revierte el esquema embebido en internal/infrastructure/postgres/migrations.
//
// Uso: go run ./cmd/migrate [-down]
// Lee DATABASE_URL (o DB_HOST, DB_PORT, ...) igual que la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "revertir todas las migraciones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migraciones")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar migrador")
		}
	}()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		log.Error().Err(err).Bool("down", *down).Msg("migración fallida")
		os.Exit(1)
	}
}
