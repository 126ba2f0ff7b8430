package entity

import "time"

// Direcciones de un movimiento de stock.
const (
	DirectionIN  = "IN"  // entrada: suma cantidad
	DirectionOUT = "OUT" // salida: resta cantidad
)

// ValidDirection indica si s es una dirección conocida.
func ValidDirection(s string) bool {
	return s == DirectionIN || s == DirectionOUT
}

// Movement representa un movimiento de stock (entrada o salida) contra un ítem.
// Es inmutable una vez creado: el historial de movimientos es un registro de
// auditoría append-only, sin update ni delete.
type Movement struct {
	ID             string
	ItemID         string
	Direction      string // IN u OUT
	Quantity       int64  // magnitud, estrictamente positiva
	IdempotencyKey string // opcional; única cuando viene informada
	CreatedAt      time.Time
}

// Effect devuelve el efecto con signo del movimiento sobre la cantidad.
func (m *Movement) Effect() int64 {
	if m.Direction == DirectionOUT {
		return -m.Quantity
	}
	return m.Quantity
}
