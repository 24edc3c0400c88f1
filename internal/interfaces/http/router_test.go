package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/profile"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore()
	denylist := cache.NewMemoryDenylist()
	authUC := auth.NewAuthUseCase(store.Users(), store.Profiles(), denylist, session.NewHub(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		CustomerUC:  usecase.NewCustomerUseCase(store.Customers()),
		StockUC:     inventory.NewStockUseCase(store.Stock(), store.Products()),
		SalesUC:     sales.NewUseCase(memory.NewRunner(store), store.Sales(), store.Products(), store.Customers(), nil),
		ReceiptUC:   sales.NewReceiptUseCase(store.Sales(), store.Customers(), store.Profiles(), store.Users(), infrapdf.NewMarotoReceiptGenerator()),
		ProfileUC:   profile.NewUseCase(store.Profiles(), store.Users(), nil, "avatars", nil),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Profiles(), store.Users(), store.Sales(), store.Stock(), store.Customers()),
		Denylist:    denylist,
		JWTSecret:   testJWTSecret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

// call ejecuta la petición, verifica el status y decodifica la respuesta en out (si no es nil).
func (a *apiClient) call(method, path string, body any, wantStatus int, out any) {
	a.t.Helper()
	resp := a.do(method, path, body)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	require.Equal(a.t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(raw, out))
	}
}

// signIn registra un usuario y deja su token en el cliente.
func (a *apiClient) signIn(email string) {
	a.t.Helper()
	a.call(http.MethodPost, "/api/auth/signup", dto.SignUpRequest{
		Email: email, Password: "secreto-123", FirstName: "Lucía",
	}, http.StatusCreated, nil)
	var login dto.LoginResponse
	a.call(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: "secreto-123"}, http.StatusOK, &login)
	require.NotEmpty(a.t, login.Token)
	a.token = login.Token
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de ventas y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_VentaDescuentaYDevuelveStock(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var product dto.ProductResponse
	api.call(http.MethodPost, "/api/products", dto.ProductRequest{Name: "Café molido", Price: dec("2.50")}, http.StatusCreated, &product)

	var customer dto.CustomerResponse
	api.call(http.MethodPost, "/api/customers", dto.CustomerRequest{Name: "Ana Pérez", Email: "ana@correo.com"}, http.StatusCreated, &customer)

	var added dto.StockMutationResponse
	api.call(http.MethodPost, "/api/stock", dto.AddStockRequest{ProductID: product.ID, Quantity: dec("10")}, http.StatusCreated, &added)
	assert.True(t, added.Created)

	var created dto.SaleMutationResponse
	api.call(http.MethodPost, "/api/sales", dto.SaleRequest{
		CustomerID: customer.ID,
		Items:      []dto.SaleItemRequest{{ProductID: product.ID, Quantity: dec("3")}},
	}, http.StatusCreated, &created)
	require.NotNil(t, created.Sale)
	assert.Empty(t, created.Warnings)
	assert.True(t, dec("7.50").Equal(created.Sale.TotalAmount), "precio del producto × cantidad")
	assert.Equal(t, "Ana Pérez", created.Sale.CustomerName)

	var stock dto.StockListResponse
	api.call(http.MethodGet, "/api/stock", nil, http.StatusOK, &stock)
	require.Len(t, stock.Items, 1)
	assert.True(t, dec("7").Equal(stock.Items[0].Quantity))

	var deleted dto.SaleMutationResponse
	api.call(http.MethodDelete, "/api/sales/"+created.Sale.ID, nil, http.StatusOK, &deleted)

	api.call(http.MethodGet, "/api/stock", nil, http.StatusOK, &stock)
	assert.True(t, dec("10").Equal(stock.Items[0].Quantity), "eliminar la venta devuelve la cantidad")

	api.call(http.MethodGet, "/api/sales/"+created.Sale.ID, nil, http.StatusNotFound, nil)
}

func TestRouter_VentaSinStockDevuelveAdvertencia(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var product dto.ProductResponse
	api.call(http.MethodPost, "/api/products", dto.ProductRequest{Name: "Té verde", Price: dec("4")}, http.StatusCreated, &product)
	var customer dto.CustomerResponse
	api.call(http.MethodPost, "/api/customers", dto.CustomerRequest{Name: "Bruno", Email: "bruno@correo.com"}, http.StatusCreated, &customer)

	var created dto.SaleMutationResponse
	api.call(http.MethodPost, "/api/sales", dto.SaleRequest{
		CustomerID: customer.ID,
		Items:      []dto.SaleItemRequest{{ProductID: product.ID, Quantity: dec("2")}},
	}, http.StatusCreated, &created)
	require.Len(t, created.Warnings, 1)
	assert.Equal(t, sales.WarningStockNotFound, created.Warnings[0].Code)

	var stock dto.StockListResponse
	api.call(http.MethodGet, "/api/stock", nil, http.StatusOK, &stock)
	assert.Empty(t, stock.Items, "no se crea stock para productos sin entrada")
}

func TestRouter_ValidacionYListado(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var errBody dto.ErrorResponse
	api.call(http.MethodPost, "/api/sales", dto.SaleRequest{}, http.StatusBadRequest, &errBody)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.NotEmpty(t, errBody.Message)

	var list dto.SaleListResponse
	api.call(http.MethodGet, "/api/sales?search=nada&sort_by=total_amount&order=asc&limit=5", nil, http.StatusOK, &list)
	assert.Empty(t, list.Items)
	assert.Equal(t, 5, list.Page.Limit)
}

func TestRouter_ComprobantePDF(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var product dto.ProductResponse
	api.call(http.MethodPost, "/api/products", dto.ProductRequest{Name: "Pan", Price: dec("1.20")}, http.StatusCreated, &product)
	var customer dto.CustomerResponse
	api.call(http.MethodPost, "/api/customers", dto.CustomerRequest{Name: "Carla", Email: "carla@correo.com"}, http.StatusCreated, &customer)
	var created dto.SaleMutationResponse
	api.call(http.MethodPost, "/api/sales", dto.SaleRequest{
		CustomerID: customer.ID,
		Items:      []dto.SaleItemRequest{{ProductID: product.ID, Quantity: dec("4")}},
	}, http.StatusCreated, &created)

	resp := api.do(http.MethodGet, "/api/sales/"+created.Sale.ID+"/receipt", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento, sesión y perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DatosAcotadosPorUsuario(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")
	var product dto.ProductResponse
	api.call(http.MethodPost, "/api/products", dto.ProductRequest{Name: "Azúcar", Price: dec("1")}, http.StatusCreated, &product)

	api.signIn("otro@tienda.com")
	api.call(http.MethodGet, "/api/products/"+product.ID, nil, http.StatusNotFound, nil)
	var list dto.ProductListResponse
	api.call(http.MethodGet, "/api/products", nil, http.StatusOK, &list)
	assert.Empty(t, list.Items)
}

func TestRouter_LogoutRevocaElToken(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var me dto.UserResponse
	api.call(http.MethodGet, "/api/auth/me", nil, http.StatusOK, &me)
	assert.Equal(t, "lucia@tienda.com", me.Email)

	api.call(http.MethodPost, "/api/auth/logout", nil, http.StatusOK, nil)

	var errBody dto.ErrorResponse
	api.call(http.MethodGet, "/api/auth/me", nil, http.StatusUnauthorized, &errBody)
	assert.Equal(t, "REVOKED_TOKEN", errBody.Code)
}

func TestRouter_SignUpEmailDuplicadoEs409(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")
	api.call(http.MethodPost, "/api/auth/signup", dto.SignUpRequest{
		Email: "LUCIA@tienda.com", Password: "secreto-123",
	}, http.StatusConflict, nil)
}

func TestRouter_PerfilYDashboard(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var prof dto.ProfileResponse
	api.call(http.MethodPut, "/api/profile", dto.ProfileRequest{
		FirstName: "Lucía", LastName: "Gómez", Email: "lucia@tienda.com", Phone: "555-0101",
	}, http.StatusOK, &prof)
	assert.Equal(t, "555-0101", prof.Phone)

	var summary dto.DashboardSummaryDTO
	api.call(http.MethodGet, "/api/dashboard/summary", nil, http.StatusOK, &summary)
	assert.Equal(t, "Lucía", summary.DisplayName)
	assert.Equal(t, 0, summary.TotalCustomers)
}

func TestRouter_AvatarSinStorageEs503(t *testing.T) {
	api := newAPI(t)
	api.signIn("lucia@tienda.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "foto.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
