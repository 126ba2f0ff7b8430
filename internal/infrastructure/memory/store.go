// Package memory implementa el almacén del ledger en memoria, con un candado
// por ítem (mapa id -> mutex) en lugar del bloqueo de fila de PostgreSQL.
// Lo usan los tests del motor y el modo DB_DRIVER=memory para desarrollo
// local sin base de datos (el original corría contra un archivo sqlite local;
// este driver es el equivalente sin dependencias).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

// Store guarda ítems y movimientos en memoria. Las lecturas van directo al
// estado confirmado; las escrituras dentro de Run quedan en un buffer que se
// aplica completo en el commit o se descarta en el rollback.
type Store struct {
	mu        sync.RWMutex
	locks     map[string]*sync.Mutex // candado por ítem
	items     map[string]*entity.Item
	movements []*entity.Movement // en orden de aceptación
	byIdemKey map[string]*entity.Movement
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		locks:     make(map[string]*sync.Mutex),
		items:     make(map[string]*entity.Item),
		byIdemKey: make(map[string]*entity.Movement),
	}
}

// Items devuelve el repositorio de ítems fuera de transacción (lecturas y CRUD del catálogo).
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s} }

// Movements devuelve el repositorio de movimientos fuera de transacción (consultas).
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Run ejecuta fn con repositorios transaccionales. GetForUpdate toma el
// candado del ítem; las escrituras se confirman juntas al final si fn no
// devolvió error y el contexto sigue vivo. Nunca hay candado global: dos
// transacciones sobre ítems distintos avanzan en paralelo.
func (s *Store) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
) error) error {
	t := &tx{
		s:           s,
		quantities:  make(map[string]int64),
		itemWrites:  make(map[string]*entity.Item),
		itemDeletes: make(map[string]bool),
	}
	defer t.unlockAll()

	if err := fn(&itemRepo{s: s, t: t}, &movementRepo{s: s, t: t}); err != nil {
		return err
	}
	// Cancelación antes del commit: no queda rastro.
	if err := ctx.Err(); err != nil {
		return err
	}
	t.commit()
	return nil
}

// tx acumula las escrituras de una transacción y los candados tomados.
type tx struct {
	s           *Store
	locked      map[string]*sync.Mutex
	quantities  map[string]int64        // id -> nueva cantidad
	itemWrites  map[string]*entity.Item // creaciones y patches de metadatos
	itemDeletes map[string]bool
	movements   []*entity.Movement
}

func (t *tx) lockItem(id string) {
	if t.locked == nil {
		t.locked = make(map[string]*sync.Mutex)
	}
	if _, held := t.locked[id]; held {
		return
	}
	t.s.mu.Lock()
	l, ok := t.s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.s.locks[id] = l
	}
	t.s.mu.Unlock()

	l.Lock()
	t.locked[id] = l
}

func (t *tx) unlockAll() {
	for _, l := range t.locked {
		l.Unlock()
	}
	t.locked = nil
}

func (t *tx) commit() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, item := range t.itemWrites {
		t.s.items[id] = item
	}
	for id, qty := range t.quantities {
		if item, ok := t.s.items[id]; ok {
			item.AvailableQuantity = qty
		}
	}
	for id := range t.itemDeletes {
		delete(t.s.items, id)
	}
	for _, m := range t.movements {
		t.s.movements = append(t.s.movements, m)
		if m.IdempotencyKey != "" {
			t.s.byIdemKey[m.IdempotencyKey] = m
		}
	}
}

// ─── repositorio de ítems ───

type itemRepo struct {
	s *Store
	t *tx // nil fuera de transacción
}

func (r *itemRepo) Create(ctx context.Context, item *entity.Item) error {
	cp := *item
	if r.t != nil {
		r.t.itemWrites[item.ID] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

// GetForUpdate toma el candado del ítem antes de leer. Fuera de una
// transacción equivale a GetByID.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if r.t != nil {
		r.t.lockItem(id)
	}
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Update(ctx context.Context, item *entity.Item) error {
	cp := *item
	if r.t != nil {
		r.t.itemWrites[item.ID] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Patch de metadatos: la cantidad materializada no se toca por esta vía.
	cp.AvailableQuantity = existing.AvailableQuantity
	r.s.items[item.ID] = &cp
	return nil
}

func (r *itemRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	if r.t != nil {
		r.t.quantities[id] = quantity
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.AvailableQuantity = quantity
	return nil
}

func (r *itemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Item, 0, len(r.s.items))
	for _, item := range r.s.items {
		cp := *item
		all = append(all, &cp)
	}
	// Más recientes primero, como el ORDER BY del almacén durable.
	sortItemsByCreatedDesc(all)
	return paginate(all, limit, offset), nil
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	if r.t != nil {
		r.t.itemDeletes[id] = true
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

// ─── repositorio de movimientos ───

type movementRepo struct {
	s *Store
	t *tx
}

func (r *movementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	cp := *movement
	if r.t != nil {
		r.t.movements = append(r.t.movements, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[movement.ItemID]; !ok {
		return domain.ErrNotFound
	}
	r.s.movements = append(r.s.movements, &cp)
	if cp.IdempotencyKey != "" {
		r.s.byIdemKey[cp.IdempotencyKey] = &cp
	}
	return nil
}

func (r *movementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m, ok := r.s.byIdemKey[key]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *movementRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(*entity.Movement) bool { return true }, limit, offset)
}

func (r *movementRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool { return m.ItemID == itemID }, limit, offset)
}

func (r *movementRepo) CountByItem(ctx context.Context, itemID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

// list devuelve los movimientos aceptados que cumplen keep, del más reciente
// al más antiguo (orden inverso de aceptación).
func (r *movementRepo) list(keep func(*entity.Movement) bool, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var filtered []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if keep(r.s.movements[i]) {
			cp := *r.s.movements[i]
			filtered = append(filtered, &cp)
		}
	}
	return paginate(filtered, limit, offset), nil
}

// ─── helpers ───

func sortItemsByCreatedDesc(items []*entity.Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
