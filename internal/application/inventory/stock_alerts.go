package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

var idealStockFactor = decimal.RequireFromString("1.5")

// StockAlertUseCase lista productos e insumos en o por debajo de su stock mínimo,
// con la cantidad sugerida de reposición.
type StockAlertUseCase struct {
	tx ports.TxRunner
}

// NewStockAlertUseCase construye el caso de uso de alertas.
func NewStockAlertUseCase(tx ports.TxRunner) *StockAlertUseCase {
	return &StockAlertUseCase{tx: tx}
}

// ListLowStock devuelve las alertas ordenadas por urgencia (mayor déficit relativo primero).
func (uc *StockAlertUseCase) ListLowStock(ctx context.Context, companyID string) ([]dto.StockAlertDTO, error) {
	var holders []*entity.StockHolder
	err := uc.tx.Run(ctx, func(uow ports.UnitOfWork) error {
		var err error
		holders, err = uow.Stock().ListLow(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.StockAlertDTO, 0, len(holders))
	for _, h := range holders {
		ideal := h.MinStock.Mul(idealStockFactor)
		if h.Integral {
			ideal = ideal.Ceil()
		}
		suggested := ideal.Sub(h.Stock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		alerts = append(alerts, dto.StockAlertDTO{
			Kind:              h.Ref.Kind,
			ID:                h.Ref.ID,
			Name:              h.Name,
			Stock:             h.Stock,
			MinStock:          h.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			UnitCost:          h.Cost,
			EstimatedCost:     suggested.Mul(h.Cost),
		})
	}

	// Déficit relativo: (Min - Stock) / Min. Sin mínimo configurado, el déficit absoluto.
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := relativeDeficit(alerts[i]), relativeDeficit(alerts[j])
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return alerts[i].Name < alerts[j].Name
	})
	for i := range alerts {
		alerts[i].Priority = i + 1
	}
	return alerts, nil
}

func relativeDeficit(a dto.StockAlertDTO) decimal.Decimal {
	deficit := a.MinStock.Sub(a.Stock)
	if !a.MinStock.IsPositive() {
		return deficit
	}
	return deficit.Div(a.MinStock)
}
