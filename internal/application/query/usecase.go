package query

import (
	"context"

	"github.com/corezen/inventory-api/internal/application/catalog"
	"github.com/corezen/inventory-api/internal/application/dto"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/domain/repository"
)

// UseCase consultas de solo lectura sobre ítems y movimientos.
// Lee directo del pool, nunca dentro de la transacción del motor de stock:
// las consultas no esperan por la exclusividad por ítem.
type UseCase struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
}

// NewUseCase construye la fachada de consultas.
func NewUseCase(items repository.ItemRepository, movements repository.MovementRepository) *UseCase {
	return &UseCase{items: items, movements: movements}
}

// ListItems lista ítems con paginación.
func (uc *UseCase) ListItems(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.Normalize()
	list, err := uc.items.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *catalog.ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListMovements lista movimientos ordenados por fecha descendente.
// Con itemID vacío lista el historial global; con itemID filtra por ítem y
// devuelve ErrNotFound si el ítem no existe.
func (uc *UseCase) ListMovements(ctx context.Context, itemID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.Normalize()

	var (
		list []*entity.Movement
		err  error
	)
	if itemID == "" {
		list, err = uc.movements.ListAll(ctx, page.Limit, page.Offset)
	} else {
		item, getErr := uc.items.GetByID(ctx, itemID)
		if getErr != nil {
			return nil, getErr
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		list, err = uc.movements.ListByItem(ctx, itemID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToMovementResponse convierte la entidad a DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID,
		Direction: m.Direction,
		Quantity:  m.Quantity,
		Timestamp: m.CreatedAt,
	}
}
