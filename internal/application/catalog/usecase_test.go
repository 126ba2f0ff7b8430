package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corezen/inventory-api/internal/application/catalog"
	"github.com/corezen/inventory-api/internal/application/dto"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/domain"
	"github.com/corezen/inventory-api/internal/domain/entity"
	"github.com/corezen/inventory-api/internal/infrastructure/memory"
)

func newCatalog() (*catalog.ItemUseCase, *memory.Store) {
	store := memory.NewStore()
	return catalog.NewItemUseCase(store.Items(), store), store
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreate_ItemValido(t *testing.T) {
	uc, _ := newCatalog()

	out, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name:            "Widget",
		Description:     "un widget",
		Price:           price("9.99"),
		InitialQuantity: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Widget", out.Name)
	assert.True(t, out.Price.Equal(price("9.99")))
	assert.EqualValues(t, 10, out.AvailableQuantity)
}

// La cantidad inicial es opcional y por defecto 0.
func TestCreate_CantidadInicialPorDefectoCero(t *testing.T) {
	uc, _ := newCatalog()

	out, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name:  "Widget",
		Price: price("1.50"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, out.AvailableQuantity)
}

func TestCreate_EntradasInvalidas(t *testing.T) {
	uc, _ := newCatalog()

	cases := []struct {
		name string
		in   dto.CreateItemRequest
	}{
		{"name vacío", dto.CreateItemRequest{Price: price("9.99")}},
		{"price cero", dto.CreateItemRequest{Name: "Widget", Price: decimal.Zero}},
		{"price negativo", dto.CreateItemRequest{Name: "Widget", Price: price("-1")}},
		{"cantidad inicial negativa", dto.CreateItemRequest{Name: "Widget", Price: price("9.99"), InitialQuantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := uc.Create(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, out)
		})
	}
}

func TestGetByID_Inexistente(t *testing.T) {
	uc, _ := newCatalog()
	out, err := uc.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Update aplica un patch parcial: los campos no enviados se conservan y la
// cantidad disponible nunca cambia por esta vía.
func TestUpdate_PatchParcial(t *testing.T) {
	uc, _ := newCatalog()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{
		Name: "Widget", Description: "original", Price: price("9.99"), InitialQuantity: 10,
	})
	require.NoError(t, err)

	newName := "Widget Pro"
	newPrice := price("19.99")
	out, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Widget Pro", out.Name)
	assert.Equal(t, "original", out.Description, "campo no enviado se conserva")
	assert.True(t, out.Price.Equal(newPrice))
	assert.EqualValues(t, 10, out.AvailableQuantity, "la cantidad no se toca vía catálogo")
}

func TestUpdate_PriceInvalido(t *testing.T) {
	uc, _ := newCatalog()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Widget", Price: price("9.99")})
	require.NoError(t, err)

	bad := decimal.Zero
	out, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{Price: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, out)
}

func TestUpdate_Inexistente(t *testing.T) {
	uc, _ := newCatalog()
	out, err := uc.Update(context.Background(), "no-existe", dto.UpdateItemRequest{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDelete_SinMovimientos(t *testing.T) {
	uc, _ := newCatalog()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Widget", Price: price("9.99")})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))

	out, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Un ítem con historial de movimientos no puede eliminarse: el ledger es
// auditoría y no debe quedar huérfano.
func TestDelete_ConMovimientosRechazado(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewItemUseCase(store.Items(), store)
	engine := ledger.NewApplyMovementUseCase(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Widget", Price: price("9.99"), InitialQuantity: 5})
	require.NoError(t, err)

	_, err = engine.Apply(ctx, ledger.ApplyInput{
		ItemID: created.ID, Direction: entity.DirectionOUT, Quantity: 2,
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	out, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, out, "el ítem debe seguir existiendo tras el rechazo")
}

func TestDelete_Inexistente(t *testing.T) {
	uc, _ := newCatalog()
	err := uc.Delete(context.Background(), "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
