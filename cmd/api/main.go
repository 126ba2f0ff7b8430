package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/corezen/inventory-api/internal/application/catalog"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/application/query"
	"github.com/corezen/inventory-api/internal/domain/repository"
	"github.com/corezen/inventory-api/internal/infrastructure/memory"
	"github.com/corezen/inventory-api/internal/infrastructure/postgres"
	httpRouter "github.com/corezen/inventory-api/internal/interfaces/http"
	"github.com/corezen/inventory-api/pkg/config"
	"github.com/corezen/inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		itemRepo repository.ItemRepository
		movRepo  repository.MovementRepository
		txRunner ledger.TxRunner
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		itemRepo = store.Items()
		movRepo = store.Movements()
		txRunner = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		itemRepo = postgres.NewItemRepository(pool)
		movRepo = postgres.NewMovementRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	itemUC := catalog.NewItemUseCase(itemRepo, txRunner)
	applyMovementUC := ledger.NewApplyMovementUseCase(txRunner)
	queryUC := query.NewUseCase(itemRepo, movRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Management API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Inventory Management API - CoreZen Solutions"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		ApplyMovement: applyMovementUC,
		QueryUC:       queryUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
