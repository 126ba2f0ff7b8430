package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: el historial es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, direction, quantity, idempotency_key, created_at`

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, direction, quantity, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	idemKey := (*string)(nil)
	if movement.IdempotencyKey != "" {
		idemKey = &movement.IdempotencyKey
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ItemID, movement.Direction,
		movement.Quantity, idemKey, movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get movement")
}

// GetByIdempotencyKey devuelve el movimiento registrado con esa clave, o nil.
func (r *MovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE idempotency_key = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, key), "get movement by idempotency key")
}

// ListAll lista movimientos globales, más recientes primero.
func (r *MovementRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return r.scanList(rows)
}

// ListByItem lista movimientos de un ítem, más recientes primero.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	return r.scanList(rows)
}

// CountByItem cuenta los movimientos registrados para un ítem.
func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return count, nil
}

func (r *MovementRepo) scanOne(row pgx.Row, op string) (*entity.Movement, error) {
	var m entity.Movement
	var idemKey *string
	err := row.Scan(&m.ID, &m.ItemID, &m.Direction, &m.Quantity, &idemKey, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if idemKey != nil {
		m.IdempotencyKey = *idemKey
	}
	return &m, nil
}

func (r *MovementRepo) scanList(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var idemKey *string
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Direction, &m.Quantity, &idemKey, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if idemKey != nil {
			m.IdempotencyKey = *idemKey
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
