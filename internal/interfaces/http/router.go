package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/corezen/inventory-api/internal/application/catalog"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/application/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *catalog.ItemUseCase
	ApplyMovement *ledger.ApplyMovementUseCase
	QueryUC       *query.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo de ítems
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.QueryUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	// Movimientos de stock
	stock := api.Group("/stock")
	movementHandler := NewMovementHandler(deps.ApplyMovement, deps.QueryUC)
	stock.Post("/movements", movementHandler.Register)
	stock.Get("/movements", movementHandler.List)
	stock.Get("/items/:id/movements", movementHandler.ListByItem)
}
