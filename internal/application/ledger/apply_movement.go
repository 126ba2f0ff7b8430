package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/domain/repository"
)

// maxApplyRetries reintentos ante ErrContention antes de rendirse.
const maxApplyRetries = 3

// ApplyMovementUseCase aplica movimientos de stock (IN/OUT) de forma atómica.
// Es el único componente que modifica AvailableQuantity: bloquea la fila del
// ítem (SELECT FOR UPDATE), valida, y persiste cantidad nueva + movimiento en
// la misma transacción. Movimientos sobre ítems distintos no se bloquean
// entre sí (el bloqueo es por fila, nunca global).
type ApplyMovementUseCase struct {
	txRunner TxRunner
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner}
}

// ApplyInput entrada para aplicar un movimiento de stock.
type ApplyInput struct {
	ItemID         string
	Direction      string // IN u OUT
	Quantity       int64  // estrictamente positiva
	IdempotencyKey string // opcional
}

// Apply valida la entrada, y dentro de una transacción con la fila del ítem
// bloqueada recalcula la cantidad y registra el movimiento. Devuelve el
// movimiento registrado.
//
// Errores: ErrInvalidInput (antes de leer estado), ErrNotFound,
// ErrInsufficientStock (salida mayor que la cantidad disponible),
// ErrContention (reintentos agotados). Ningún error deja efectos parciales.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, input ApplyInput) (*entity.Movement, error) {
	// Validar antes de leer cualquier estado
	if input.ItemID == "" || input.Quantity <= 0 || !entity.ValidDirection(input.Direction) {
		return nil, domain.ErrInvalidInput
	}

	var lastErr error
	for attempt := 0; attempt < maxApplyRetries; attempt++ {
		mov, err := uc.applyOnce(ctx, input)
		if err == nil {
			return mov, nil
		}
		if !errors.Is(err, domain.ErrContention) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// applyOnce ejecuta un intento completo: transacción, bloqueo de fila,
// validación de stock, escritura de cantidad + movimiento, commit.
func (uc *ApplyMovementUseCase) applyOnce(ctx context.Context, input ApplyInput) (*entity.Movement, error) {
	var applied *entity.Movement

	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error {
		// Bloquea la fila del ítem: a partir de aquí nadie más puede
		// leer-para-escribir este ítem hasta el commit o rollback.
		item, err := items.GetForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		// Reintento de cliente: misma clave = mismo movimiento, sin reaplicar.
		if input.IdempotencyKey != "" {
			prev, err := movements.GetByIdempotencyKey(ctx, input.IdempotencyKey)
			if err != nil {
				return err
			}
			if prev != nil {
				applied = prev
				return nil
			}
		}

		newQuantity := item.AvailableQuantity
		switch input.Direction {
		case entity.DirectionIN:
			newQuantity += input.Quantity
		case entity.DirectionOUT:
			if input.Quantity > item.AvailableQuantity {
				return domain.ErrInsufficientStock
			}
			newQuantity -= input.Quantity
		}

		// El timestamp se asigna dentro de la sección crítica: los movimientos
		// de un mismo ítem quedan con fechas no decrecientes en el orden en
		// que fueron aceptados.
		now := time.Now().UTC()
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			ItemID:         input.ItemID,
			Direction:      input.Direction,
			Quantity:       input.Quantity,
			IdempotencyKey: input.IdempotencyKey,
			CreatedAt:      now,
		}

		if err := items.UpdateQuantity(ctx, input.ItemID, newQuantity); err != nil {
			return err
		}
		if err := movements.Create(ctx, mov); err != nil {
			return err
		}
		applied = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
