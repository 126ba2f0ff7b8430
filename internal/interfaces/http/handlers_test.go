package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corezen/inventory-api/internal/application/catalog"
	"github.com/corezen/inventory-api/internal/application/ledger"
	"github.com/corezen/inventory-api/internal/application/query"
	"github.com/corezen/inventory-api/internal/infrastructure/memory"
	apphttp "github.com/corezen/inventory-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp levanta la API completa sobre el almacén en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:        catalog.NewItemUseCase(store.Items(), store),
		ApplyMovement: ledger.NewApplyMovementUseCase(store),
		QueryUC:       query.NewUseCase(store.Items(), store.Movements()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createItem(t *testing.T, app *fiber.App, name string, price float64, qty int64) map[string]any {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/items", map[string]any{
		"name": name, "price": price, "initial_quantity": qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item map[string]any
	decode(t, resp, &item)
	return item
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_CrearYObtener(t *testing.T) {
	app := buildTestApp()

	item := createItem(t, app, "Widget", 9.99, 10)
	id := item["id"].(string)
	assert.Equal(t, "Widget", item["name"])
	assert.EqualValues(t, 10, item["available_quantity"])

	resp := doJSON(t, app, http.MethodGet, "/api/items/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	decode(t, resp, &got)
	assert.Equal(t, id, got["id"])
}

func TestItems_CrearInvalido(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/items", map[string]any{
		"name": "", "price": 9.99,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/items", map[string]any{
		"name": "Widget", "price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestItems_ObtenerInexistente(t *testing.T) {
	app := buildTestApp()
	resp := doJSON(t, app, http.MethodGet, "/api/items/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_ActualizarPatch(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Widget", 9.99, 3)
	id := item["id"].(string)

	resp := doJSON(t, app, http.MethodPut, "/api/items/"+id, map[string]any{
		"name": "Widget Pro",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	decode(t, resp, &got)
	assert.Equal(t, "Widget Pro", got["name"])
	assert.EqualValues(t, 3, got["available_quantity"], "el PUT no toca la cantidad")
}

func TestItems_EliminarConHistorialRechazado(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Widget", 9.99, 5)
	id := item["id"].(string)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": id, "direction": "OUT", "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/items/"+id, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Sin historial sí se puede eliminar.
	other := createItem(t, app, "Otro", 1.00, 0)
	resp = doJSON(t, app, http.MethodDelete, "/api/items/"+other["id"].(string), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos de stock
// ──────────────────────────────────────────────────────────────────────────────

// Flujo completo: crear ítem con 10, entrada de 5, cantidad 15 y un movimiento IN registrado.
func TestStock_EntradaActualizaCantidad(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Widget", 9.99, 10)
	id := item["id"].(string)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": id, "direction": "IN", "quantity": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov map[string]any
	decode(t, resp, &mov)
	assert.Equal(t, "IN", mov["direction"])
	assert.EqualValues(t, 5, mov["quantity"])

	resp = doJSON(t, app, http.MethodGet, "/api/items/"+id, nil)
	var got map[string]any
	decode(t, resp, &got)
	assert.EqualValues(t, 15, got["available_quantity"])

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/stock/items/%s/movements", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list map[string]any
	decode(t, resp, &list)
	assert.Len(t, list["items"], 1)
}

func TestStock_SalidaInsuficiente(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Widget", 9.99, 3)
	id := item["id"].(string)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": id, "direction": "OUT", "quantity": 5,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	// La cantidad no cambió y no hay movimientos.
	resp = doJSON(t, app, http.MethodGet, "/api/items/"+id, nil)
	var got map[string]any
	decode(t, resp, &got)
	assert.EqualValues(t, 3, got["available_quantity"])
}

func TestStock_Validaciones(t *testing.T) {
	app := buildTestApp()
	item := createItem(t, app, "Widget", 9.99, 3)
	id := item["id"].(string)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": id, "direction": "UP", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": id, "direction": "IN", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
		"item_id": "no-existe", "direction": "IN", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStock_ListadoGlobalYPorItem(t *testing.T) {
	app := buildTestApp()
	a := createItem(t, app, "A", 1.00, 10)["id"].(string)
	b := createItem(t, app, "B", 2.00, 10)["id"].(string)

	for _, id := range []string{a, b, a} {
		resp := doJSON(t, app, http.MethodPost, "/api/stock/movements", map[string]any{
			"item_id": id, "direction": "OUT", "quantity": 1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/stock/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var global map[string]any
	decode(t, resp, &global)
	assert.Len(t, global["items"], 3)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/movements?item_id="+a, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var filtered map[string]any
	decode(t, resp, &filtered)
	assert.Len(t, filtered["items"], 2)

	resp = doJSON(t, app, http.MethodGet, "/api/stock/movements?item_id=no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
