package repository

import (
	"context"

	"github.com/corezen/inventory-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de stock.
// El historial es append-only: no existen Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetByIdempotencyKey devuelve el movimiento ya registrado con esa clave,
	// o nil si no existe. Usado por el motor para reintentos de cliente.
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error)
	// ListAll y ListByItem devuelven movimientos ordenados por fecha de
	// creación descendente.
	ListAll(ctx context.Context, limit, offset int) ([]*entity.Movement, error)
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, error)
	CountByItem(ctx context.Context, itemID string) (int64, error)
}
