package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// DefaultIdempotencyTTL tiempo durante el que se recuerda una clave de creación.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotentCreator crea ventas como máximo una vez por clave (header Idempotency-Key).
type IdempotentCreator struct {
	sales *SaleUseCase
	store ports.IdempotencyStore
	ttl   time.Duration
	log   zerolog.Logger
}

// NewIdempotentCreator envuelve el caso de uso de ventas con un almacén de claves.
func NewIdempotentCreator(sales *SaleUseCase, store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) *IdempotentCreator {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotentCreator{sales: sales, store: store, ttl: ttl, log: log}
}

// Create crea la venta. Si la clave ya se completó devuelve la venta original y replayed=true;
// si otra petición con la misma clave sigue en curso devuelve ErrConflict.
func (c *IdempotentCreator) Create(ctx context.Context, companyID, userID, key string, in UpsertSaleInput) (sale *entity.Sale, replayed bool, err error) {
	if in.ID != "" {
		return nil, false, fmt.Errorf("%w: la creación no admite ID", domain.ErrInvalidInput)
	}
	if key == "" {
		sale, err = c.sales.UpsertSale(ctx, companyID, userID, in)
		return sale, false, err
	}

	k := "sale:idempotency:" + companyID + ":" + key
	reserved, err := c.store.Reserve(ctx, k, c.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("reservar clave de idempotencia: %w", err)
	}
	if !reserved {
		saleID, done, err := c.store.Result(ctx, k)
		if err != nil {
			return nil, false, fmt.Errorf("leer clave de idempotencia: %w", err)
		}
		if !done {
			return nil, false, fmt.Errorf("%w: ya hay una venta en curso con la clave %q", domain.ErrConflict, key)
		}
		sale, err = c.sales.GetSale(ctx, companyID, saleID)
		return sale, true, err
	}

	sale, err = c.sales.UpsertSale(ctx, companyID, userID, in)
	if err != nil {
		if relErr := c.store.Release(ctx, k); relErr != nil {
			c.log.Error().Err(relErr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
		return nil, false, err
	}
	if err := c.store.Complete(ctx, k, sale.ID, c.ttl); err != nil {
		// La venta ya está confirmada; un reintento con la misma clave recibirá CONFLICT hasta que expire.
		c.log.Error().Err(err).Str("key", key).Str("sale_id", sale.ID).Msg("no se pudo guardar el resultado de idempotencia")
	}
	return sale, false, nil
}
