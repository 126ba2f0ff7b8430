package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El motor de stock nunca aplica efectos parciales: cualquiera de estos
// errores deja el ítem y su historial exactamente como estaban.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrContention        = errors.New("conflicto de escritura concurrente, reintentar")
)
