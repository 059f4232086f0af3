package domain

import (
	"errors"

	"github.com/jhoicas/inventory-ledger/internal/domain/units"
)

// Errores de dominio (sin dependencias de infraestructura).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para dar contexto; comparar con errors.Is.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrSaleNotFound        = errors.New("venta no encontrada")
	ErrAlreadyCanceled     = errors.New("la venta ya está anulada")
	ErrRecipeNotConfigured = errors.New("el producto preparado no tiene receta configurada")

	// ErrIncompatibleUnitFamily receta e insumo con unidades de distinta familia (error de configuración).
	ErrIncompatibleUnitFamily = units.ErrIncompatibleUnitFamily
)
