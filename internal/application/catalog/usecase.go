package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/corezen/inventory-api/internal/application/dto"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems del catálogo. La cantidad solo se
// fija al crear (valor inicial); después únicamente cambia vía movimientos.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner ledger.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, txRunner ledger.TxRunner) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un ítem. Requiere name no vacío, price > 0 y cantidad inicial >= 0.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || !in.Price.GreaterThan(decimal.Zero) || in.InitialQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		AvailableQuantity: in.InitialQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID obtiene un ítem por ID. Devuelve nil si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return ToItemResponse(item), nil
}

// Update aplica un patch parcial de name/description/price. No permite
// modificar AvailableQuantity: esa columna pertenece al motor de stock.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if !in.Price.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Delete elimina un ítem. Se rechaza con ErrConflict si el ítem tiene
// movimientos registrados: el historial es auditoría y no puede quedar
// huérfano ni destruirse. La verificación y el borrado corren en la misma
// transacción con la fila bloqueada, para que un movimiento concurrente no
// se cuele entre ambas.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error {
		item, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		count, err := movements.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrConflict
		}
		return items.Delete(ctx, id)
	})
}

// ToItemResponse convierte la entidad a DTO de salida.
func ToItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Description:       i.Description,
		Price:             i.Price,
		AvailableQuantity: i.AvailableQuantity,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
