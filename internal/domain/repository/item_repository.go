package repository

import (
	"context"

	"github.com/corezen/inventory-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el ítem y bloquea su fila para escritura
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de un TxRunner.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update modifica los metadatos (name, description, price). Nunca toca
	// AvailableQuantity: esa columna es propiedad del motor de stock.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateQuantity fija la cantidad materializada. Solo el motor de stock
	// la invoca, con la fila bloqueada.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
