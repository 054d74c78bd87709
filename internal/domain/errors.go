package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Toda validación se ejecuta antes de cualquier escritura al libro: nunca hay
// mutaciones parciales cuando se devuelve un error.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidMovement        = errors.New("movimiento inválido")
	ErrUnknownItemOrLocation  = errors.New("ítem o ubicación desconocidos")
	ErrConcurrentModification = errors.New("modificación concurrente; reintentar")
)
