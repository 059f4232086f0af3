package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de auditoría. Cuando corre dentro de una tx, la inserción va en un
// SAVEPOINT: si falla, la transacción externa sigue usable.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEvent) error {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	query := `
		INSERT INTO audit_logs (id, company_id, user_id, type, severity, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	args := []any{e.ID, e.CompanyID, e.UserID, e.Type, e.Severity, e.EntityType, e.EntityID, metadata, e.CreatedAt}

	b, ok := r.q.(beginner)
	if !ok {
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert audit log: %w", err)
		}
		return nil
	}
	sp, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("audit savepoint: %w", err)
	}
	if _, err := sp.Exec(ctx, query, args...); err != nil {
		_ = sp.Rollback(ctx)
		return fmt.Errorf("insert audit log: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release audit savepoint: %w", err)
	}
	return nil
}
