package entity

import "time"

// Severidades de eventos de auditoría.
const (
	SeverityInfo     = "INFO"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Tipos de evento emitidos por el núcleo.
const (
	AuditStockAdjusted       = "STOCK_ADJUSTED"
	AuditProductionCompleted = "PRODUCTION_COMPLETED"
	AuditSaleCreated         = "SALE_CREATED"
	AuditSaleUpdated         = "SALE_UPDATED"
	AuditSaleCanceled        = "SALE_CANCELED"
	AuditSaleDeleted         = "SALE_DELETED"
)

// AuditEvent notificación estructurada hacia el colaborador de auditoría.
type AuditEvent struct {
	ID         string
	CompanyID  string
	UserID     string
	Type       string
	Severity   string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
