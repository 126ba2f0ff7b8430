package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las tablas si no existen. El historial de movimientos
// referencia a items sin ON DELETE CASCADE: borrar un ítem con historial
// falla por FK, consistente con la política del catálogo (ErrConflict).
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL CHECK (name <> ''),
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL CHECK (price > 0),
			available_quantity BIGINT NOT NULL DEFAULT 0 CHECK (available_quantity >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id UUID PRIMARY KEY,
			item_id UUID NOT NULL REFERENCES items(id),
			direction TEXT NOT NULL CHECK (direction IN ('IN', 'OUT')),
			quantity BIGINT NOT NULL CHECK (quantity > 0),
			idempotency_key TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_item_created
			ON stock_movements (item_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_created
			ON stock_movements (created_at DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_movements_idempotency
			ON stock_movements (idempotency_key) WHERE idempotency_key IS NOT NULL`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
