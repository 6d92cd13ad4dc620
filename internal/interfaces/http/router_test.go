package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/numbering"
	"github.com/jhoicas/inventario-ledger/internal/application/order"
	"github.com/jhoicas/inventario-ledger/internal/application/returns"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// apiClient envuelve la app completa sobre el store en memoria.
type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	repos := store.Repositories()
	policy := appinventory.NewConfigStockPolicy(false, nil)
	catalog := appinventory.NewCatalog(repos.Products(), repos.Locations())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(repos.Products()),
		LocationUC:    usecase.NewLocationUseCase(repos.Locations()),
		Adjustments:   appinventory.NewAdjustmentUseCase(store, policy, catalog, repos.Adjustments(), log),
		Transfers:     appinventory.NewTransferUseCase(store, policy, catalog, repos.Transfers(), log),
		StockCounts:   appinventory.NewStockCountUseCase(store, policy, catalog, repos.StockCounts(), infrapdf.NewMarotoPDFGenerator(), log),
		Query:         appinventory.NewQueryUseCase(catalog, repos.Balances(), repos.Transactions()),
		Replenishment: appinventory.NewReplenishmentUseCase(catalog, repos.Balances()),
		Orders: order.NewUseCase(store, policy, catalog, repos.Balances(), repos.Orders(),
			numbering.NewGenerator("ORD", repos.Orders(), log), log),
		Returns: returns.NewUseCase(store, policy, catalog, repos.Orders(), repos.Returns(),
			numbering.NewGenerator("RET", repos.Returns(), log), log),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) token(role, tenantID string) string {
	a.t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, tenantID, role, testIssuer, testExpMin)
	require.NoError(a.t, err)
	return "Bearer " + tok
}

// do envía la petición como role en el tenant de prueba y decodifica el JSON en out (si no es nil).
func (a *apiClient) do(method, path, role string, body any, out any) *http.Response {
	a.t.Helper()
	return a.doTenant(method, path, role, testTenantID, body, out)
}

func (a *apiClient) doTenant(method, path, role, tenantID string, body any, out any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.token(role, tenantID))
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// seed crea una ubicación y un producto con stock inicial vía ajuste.
func (a *apiClient) seed(stock string) (dto.LocationResponse, dto.ProductResponse) {
	a.t.Helper()
	var loc dto.LocationResponse
	resp := a.do(http.MethodPost, "/api/locations", "admin", map[string]any{"name": "Bodega Central"}, &loc)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	var prod dto.ProductResponse
	resp = a.do(http.MethodPost, "/api/products", "admin", map[string]any{
		"sku": "SKU-1", "name": "Tornillo", "price": "25", "cost": "10",
		"reorder_point": "20", "unit_measure": "UND",
	}, &prod)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/inventory/adjustments", "bodeguero", map[string]any{
		"location_id": loc.ID, "reason_code": "INITIAL",
		"lines": []map[string]any{{"product_id": prod.ID, "quantity": stock, "unit_cost": "5"}},
	}, nil)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return loc, prod
}

func (a *apiClient) balance(loc dto.LocationResponse, prod dto.ProductResponse) dto.BalanceResponse {
	a.t.Helper()
	var b dto.BalanceResponse
	resp := a.do(http.MethodGet, "/api/locations/"+loc.ID+"/balances/"+prod.ID, "vendedor", nil, &b)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	return b
}

func TestAPI_PedidoDescuentaYCancelacionReintegra(t *testing.T) {
	api := newAPI(t)
	loc, prod := api.seed("10")

	var created dto.OrderResponse
	resp := api.do(http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"location_id": loc.ID, "status": "PROCESSING",
		"items": []map[string]any{{"product_id": prod.ID, "quantity": "4"}},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PROCESSING", created.Status)
	assert.Equal(t, "100", created.Total.String(), "4 x 25 con precio del catálogo")
	assert.Equal(t, "6", api.balance(loc, prod).QuantityOnHand.String())

	var cancelled dto.OrderResponse
	resp = api.do(http.MethodPost, "/api/orders/"+created.ID+"/cancel", "vendedor", nil, &cancelled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, "10", api.balance(loc, prod).QuantityOnHand.String())

	var feed dto.TransactionListResponse
	resp = api.do(http.MethodGet, "/api/inventory/transactions?product_id="+prod.ID, "vendedor", nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed.Items, 3)
	types := map[string]int{}
	for _, it := range feed.Items {
		types[it.Type]++
	}
	assert.Equal(t, map[string]int{"ADJUSTMENT_IN": 1, "SALE": 1, "RETURN_RESTOCK": 1}, types)
}

func TestAPI_StockInsuficienteResponde409ConCifras(t *testing.T) {
	api := newAPI(t)
	loc, prod := api.seed("4")

	var errResp dto.ErrorResponse
	resp := api.do(http.MethodPost, "/api/orders", "vendedor", map[string]any{
		"location_id": loc.ID, "status": "PROCESSING",
		"items": []map[string]any{{"product_id": prod.ID, "quantity": "10"}},
	}, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "4", errResp.Details["available"])
	assert.Equal(t, "10", errResp.Details["requested"])
	assert.Equal(t, "4", api.balance(loc, prod).QuantityOnHand.String(), "el rechazo no mueve stock")
}

func TestAPI_ValidacionDeBodyResponde400ConCampos(t *testing.T) {
	api := newAPI(t)

	var errResp dto.ErrorResponse
	resp := api.do(http.MethodPost, "/api/inventory/transfers", "bodeguero", map[string]any{
		"source_location_id": "a", "destination_location_id": "a",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errResp.Code)
	fields, ok := errResp.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "nefield", fields["destination_location_id"])
	assert.Equal(t, "required", fields["lines"])
}

func TestAPI_BodyMalformadoResponde400(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", api.token("vendedor", testTenantID))
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_BODY")
}

func TestAPI_RolesPorRuta(t *testing.T) {
	api := newAPI(t)
	loc, prod := api.seed("5")

	resp := api.do(http.MethodPost, "/api/inventory/adjustments", "vendedor", map[string]any{
		"location_id": loc.ID, "reason_code": "X",
		"lines": []map[string]any{{"product_id": prod.ID, "quantity": "1"}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no ajusta inventario")

	resp = api.do(http.MethodPost, "/api/orders", "bodeguero", map[string]any{
		"location_id": loc.ID, "items": []map[string]any{{"product_id": prod.ID, "quantity": "1"}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "bodeguero no crea pedidos")

	resp = api.do(http.MethodPost, "/api/products", "bodeguero", map[string]any{
		"sku": "X", "name": "X", "unit_measure": "UND",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_AislamientoPorTenant(t *testing.T) {
	api := newAPI(t)
	_, prod := api.seed("5")

	var errResp dto.ErrorResponse
	resp := api.doTenant(http.MethodGet, "/api/products/"+prod.ID, "admin", "otro-tenant", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAPI_SkuDuplicadoResponde409(t *testing.T) {
	api := newAPI(t)
	api.seed("1")

	var errResp dto.ErrorResponse
	resp := api.do(http.MethodPost, "/api/products", "admin", map[string]any{
		"sku": "SKU-1", "name": "Otro", "unit_measure": "UND",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SKU", errResp.Code)
}

func TestAPI_ConteoCiegoYHojaPDF(t *testing.T) {
	api := newAPI(t)
	loc, _ := api.seed("7")

	var sc dto.StockCountResponse
	resp := api.do(http.MethodPost, "/api/inventory/stock-counts", "bodeguero", map[string]any{
		"location_id": loc.ID, "type": "FULL",
	}, &sc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, sc.Items, 1)
	assert.Nil(t, sc.Items[0].SnapshotQuantity, "durante el conteo no se expone la cantidad del sistema")

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/stock-counts/"+sc.ID+"/sheet", nil)
	req.Header.Set("Authorization", api.token("bodeguero", testTenantID))
	pdfResp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(pdfResp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAPI_ReposicionRequiereUbicacion(t *testing.T) {
	api := newAPI(t)
	loc, prod := api.seed("5")

	resp := api.do(http.MethodGet, "/api/inventory/replenishment-list", "admin", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	resp = api.do(http.MethodGet, "/api/inventory/replenishment-list?location_id="+loc.ID, "admin", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, prod.ID, out.Replenishments[0].ProductID)
	assert.Equal(t, "25", out.Replenishments[0].SuggestedOrderQty.String(), "ideal 30 - disponible 5")
}
