package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/internal/infrastructure/memstore"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
	"github.com/shopeasy/shopeasy-engine/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func testJWTManager() *helpers.JWTManager {
	return helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
}

type testEnv struct {
	router   *gin.Engine
	store    *memstore.Store
	accounts *application.AccountService
	cart     *application.CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memstore.New()
	jwt := testJWTManager()
	accounts := application.NewAccountService(store, jwt, nil, "", logger, application.AccountConfig{})
	cart, err := application.NewCartService(context.Background(), store, logger, application.Pricing{})
	require.NoError(t, err)
	wishlist, err := application.NewWishlistService(context.Background(), store, logger)
	require.NoError(t, err)
	accounts.AttachSessionScoped(cart, wishlist)
	orders := application.NewOrderService(store, cart, accounts, logger, "SHOP")
	cat := catalog.New(nil, "catalog", logger)

	accountHandler := NewAccountHandler(accounts, logger, "localhost", false, nil)
	cartHandler := NewCartHandler(cart, cat, logger)
	catalogHandler := NewCatalogHandler(cat, wishlist, logger)
	orderHandler := NewOrderHandler(orders, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/accounts/register", accountHandler.Register)
	api.POST("/accounts/login", accountHandler.Login)
	api.POST("/accounts/password/reset", accountHandler.ResetPassword)
	api.GET("/products", catalogHandler.List)
	api.GET("/cart", cartHandler.Get)
	api.POST("/cart/items", cartHandler.AddItem)
	api.PATCH("/cart/items/:id", cartHandler.UpdateQuantity)
	api.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	api.POST("/orders/checkout", orderHandler.Checkout)

	return &testEnv{router: r, store: store, accounts: accounts, cart: cart}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/accounts/register", gin.H{
		"name":             "Asha Verma",
		"email":            "asha@example.com",
		"mobile_number":    "9876543210",
		"password":         "pass1234",
		"confirm_password": "pass1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "9876543210", data["mobile_number"])
	assert.NotContains(t, data, "password")

	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	// missing fields are rejected by binding before the engine runs
	w := env.do(t, http.MethodPost, "/api/accounts/register", gin.H{"name": "Asha Verma"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// engine validation errors carry their message through
	w = env.do(t, http.MethodPost, "/api/accounts/register", gin.H{
		"name":             "Asha Verma",
		"email":            "asha@example.com",
		"mobile_number":    "12345",
		"password":         "pass1234",
		"confirm_password": "pass1234",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a valid 10-digit mobile number", decode(t, w)["message"])
}

func TestLoginEndpointStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/accounts/register", gin.H{
		"name":             "Asha Verma",
		"email":            "asha@example.com",
		"mobile_number":    "9876543210",
		"password":         "pass1234",
		"confirm_password": "pass1234",
	})

	w := env.do(t, http.MethodPost, "/api/accounts/login", gin.H{"mobile_number": "9876543210", "password": "nope1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/accounts/login", gin.H{"mobile_number": "9999999999", "password": "pass1234"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/accounts/login", gin.H{"mobile_number": "9876543210", "password": "pass1234"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1999), data["subtotal"])
	assert.Equal(t, float64(0), data["shipping"]) // 1999 clears the threshold

	w = env.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": "99"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// an explicit zero delta binds and is a no-op
	w = env.do(t, http.MethodPatch, "/api/cart/items/1", gin.H{"delta": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	// a missing delta is still rejected
	w = env.do(t, http.MethodPatch, "/api/cart/items/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/cart/items/1", gin.H{"delta": -1})
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(0), data["count"])

	w = env.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(49), data["shipping"])
}

func TestCheckoutEndpointStatuses(t *testing.T) {
	env := newTestEnv(t)

	// no session
	env.do(t, http.MethodPost, "/api/cart/items", gin.H{"product_id": "1"})
	w := env.do(t, http.MethodPost, "/api/orders/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	env.do(t, http.MethodPost, "/api/accounts/register", gin.H{
		"name":             "Asha Verma",
		"email":            "asha@example.com",
		"mobile_number":    "9876543210",
		"password":         "pass1234",
		"confirm_password": "pass1234",
	})

	w = env.do(t, http.MethodPost, "/api/orders/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// the cart is now empty
	w = env.do(t, http.MethodPost, "/api/orders/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
