package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AuditRepository destino de los eventos de auditoría (misma tx que la mutación).
type AuditRepository interface {
	Create(ctx context.Context, event *entity.AuditEvent) error
}
