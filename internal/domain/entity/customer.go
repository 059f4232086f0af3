package entity

import "time"

// Customer representa un cliente de la empresa; una venta puede referenciarlo opcionalmente.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // NIT o Cédula
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
