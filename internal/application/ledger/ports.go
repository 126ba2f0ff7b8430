package ledger

import (
	"context"

	"github.com/corezen/inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén,
// pasando repositorios atados a esa transacción. Es la unidad de commit del
// motor de stock: o se persisten ítem y movimiento juntos, o ninguno.
//
// Si otro escritor interfiere (deadlock, fallo de serialización), Run
// devuelve domain.ErrContention y el motor reintenta desde cero.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}
