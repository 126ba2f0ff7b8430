package dto

import "time"

// RegisterMovementRequest body para POST /api/stock/movements.
// IdempotencyKey es opcional: si el cliente reintenta con la misma clave,
// el motor devuelve el movimiento ya registrado sin aplicar nada.
type RegisterMovementRequest struct {
	ItemID         string `json:"item_id"`
	Direction      string `json:"direction"`
	Quantity       int64  `json:"quantity"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Direction string    `json:"direction"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
