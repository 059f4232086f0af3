package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionOrder registro de una corrida de producción completada.
type ProductionOrder struct {
	ID        string
	CompanyID string
	ProductID string
	Quantity  int64
	TotalCost decimal.Decimal // costo real de los insumos consumidos
	UnitCost  decimal.Decimal // TotalCost / Quantity
	CreatedBy string
	CreatedAt time.Time
}
