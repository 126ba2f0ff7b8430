package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/corezen/inventory-api/internal/application/dto"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/application/query"
	"github.com/corezen/inventory-api/internal/domain"
)

// MovementHandler maneja las peticiones HTTP de movimientos de stock.
type MovementHandler struct {
	engine *ledger.ApplyMovementUseCase
	query  *query.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(engine *ledger.ApplyMovementUseCase, query *query.UseCase) *MovementHandler {
	return &MovementHandler{engine: engine, query: query}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica un movimiento IN u OUT de forma atómica contra el ítem.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, direction (IN|OUT), quantity (> 0), idempotency_key opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.engine.Apply(c.Context(), ledger.ApplyInput{
		ItemID:         in.ItemID,
		Direction:      in.Direction,
		Quantity:       in.Quantity,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "direction IN|OUT y quantity > 0"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		if errors.Is(err, domain.ErrContention) {
			// Transitorio: el cliente puede reintentar la operación completa.
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "conflicto de escritura, reintente"})
		}
		log.Error().Err(err).Str("item_id", in.ItemID).Str("direction", in.Direction).Msg("fallo de almacenamiento aplicando movimiento")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(query.ToMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimientos de stock
// @Description  Historial global o filtrado por ítem, del más reciente al más antiguo.
// @Tags         stock
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        limit    query  int     false  "Límite (1..1000)"  default(100)
// @Param        offset   query  int     false  "Offset"            default(0)
// @Success      200      {object}  dto.MovementListResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	return h.list(c, c.Query("item_id"))
}

// ListByItem godoc
// @Summary      Listar movimientos de un ítem
// @Tags         stock
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Límite (1..1000)"  default(100)
// @Param        offset  query  int     false  "Offset"            default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/movements [get]
func (h *MovementHandler) ListByItem(c *fiber.Ctx) error {
	return h.list(c, c.Params("id"))
}

func (h *MovementHandler) list(c *fiber.Ctx, itemID string) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultLimit),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.query.ListMovements(c.Context(), itemID, page)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
