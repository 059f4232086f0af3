// Package audit registra eventos de negocio en la misma unidad de trabajo que la mutación que los origina.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-ledger/internal/application/ports"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Recorder escribe eventos de auditoría.
// En modo no estricto un fallo al escribir se registra en el log y no afecta la operación;
// en modo estricto el error se propaga y la transacción completa se revierte.
type Recorder struct {
	log    zerolog.Logger
	strict bool
	now    func() time.Time
}

// NewRecorder construye el colaborador de auditoría.
func NewRecorder(log zerolog.Logger, strict bool) *Recorder {
	return &Recorder{log: log, strict: strict, now: time.Now}
}

// Strict indica si un fallo de auditoría aborta la operación.
func (r *Recorder) Strict() bool { return r.strict }

// Record persiste el evento usando los repositorios de uow.
// Debe llamarse solo después de que la mutación principal tuvo éxito.
func (r *Recorder) Record(ctx context.Context, uow ports.UnitOfWork, event entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Severity == "" {
		event.Severity = entity.SeverityInfo
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}
	if err := uow.Audit().Create(ctx, &event); err != nil {
		if r.strict {
			return fmt.Errorf("registrar auditoría %s: %w", event.Type, err)
		}
		r.log.Error().
			Err(err).
			Str("company_id", event.CompanyID).
			Str("event_type", event.Type).
			Str("entity_type", event.EntityType).
			Str("entity_id", event.EntityID).
			Msg("no se pudo registrar el evento de auditoría")
	}
	return nil
}
