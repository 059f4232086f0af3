package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una organización/tenant del sistema (multi-tenant).
// AllowNegativeStock habilita vender o descontar por debajo de cero (sobreventa).
type Company struct {
	ID                 string
	Name               string
	NIT                string
	Status             string // active, suspended, inactive
	AllowNegativeStock bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
