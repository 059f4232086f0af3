package ports

import (
	"context"
	"time"
)

// IdempotencyStore guarda claves de idempotencia con TTL.
// Una clave pasa por dos estados: reservada (operación en curso) y completada (con su resultado).
type IdempotencyStore interface {
	// Reserve marca la clave como en curso. false si ya existía (en curso o completada).
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Result devuelve el resultado guardado; done=false si la clave sigue en curso o no existe.
	Result(ctx context.Context, key string) (value string, done bool, err error)
	// Complete guarda el resultado de la operación.
	Complete(ctx context.Context, key, value string, ttl time.Duration) error
	// Release libera una reserva cuya operación falló, para permitir reintentar.
	Release(ctx context.Context, key string) error
}
