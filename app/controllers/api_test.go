package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/routes"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/router"
)

// newTestServer boots the full route tree against an isolated in-memory
// database and seeds one category.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	require.NoError(t, db.Create(&models.Category{Name: "Electronics"}).Error)

	r := router.New()
	routes.RegisterAPI(r, db)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return srv, db
}

type apiResponse struct {
	Status   int
	Envelope map[string]interface{}
}

// call sends a JSON request, optionally with a bearer token, and decodes the
// response envelope.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) apiResponse {
	t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out.Envelope))
	}
	return out
}

func (r apiResponse) data(t *testing.T) map[string]interface{} {
	t.Helper()
	data, ok := r.Envelope["data"].(map[string]interface{})
	require.Truef(t, ok, "expected data object, got %v", r.Envelope)
	return data
}

// registerAndLogin creates an account through the API and returns its access
// token.
func registerAndLogin(t *testing.T, srv *httptest.Server, username string, isVendor bool) string {
	t.Helper()

	resp := call(t, srv, http.MethodPost, "/api/users/register", "", map[string]interface{}{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password123",
		"is_vendor": isVendor,
	})
	require.Equal(t, http.StatusCreated, resp.Status)

	resp = call(t, srv, http.MethodPost, "/api/users/login", "", map[string]interface{}{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Status)

	token, _ := resp.data(t)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestMarketplaceFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	vendorToken := registerAndLogin(t, srv, "vendor", true)
	customerToken := registerAndLogin(t, srv, "customer", false)

	// Vendor lists a product.
	resp := call(t, srv, http.MethodPost, "/api/products", vendorToken, map[string]interface{}{
		"name":               "Wireless Mouse",
		"description":        "A mouse without wires",
		"original_price":     "24.90",
		"available_quantity": 10,
		"category":           "Electronics",
	})
	require.Equal(t, http.StatusCreated, resp.Status)
	product := resp.data(t)
	productID := uint(product["id"].(float64))
	assert.Equal(t, "24.90", product["original_price"])

	// The catalog is public.
	resp = call(t, srv, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)

	// Customer adds two units to the cart.
	resp = call(t, srv, http.MethodPost, "/api/carts/items", customerToken, map[string]interface{}{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.Status)

	// Adding the same product again conflicts.
	resp = call(t, srv, http.MethodPost, "/api/carts/items", customerToken, map[string]interface{}{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusConflict, resp.Status)

	// The cart shows the item and the running subtotal.
	resp = call(t, srv, http.MethodGet, "/api/carts", customerToken, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	cart := resp.data(t)
	assert.Equal(t, "49.80", cart["subtotal"])
	items := cart["cart_items"].([]interface{})
	require.Len(t, items, 1)

	// Checkout converts the cart into an order.
	resp = call(t, srv, http.MethodPost, "/api/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, resp.Status)
	order := resp.data(t)
	assert.Equal(t, "49.80", order["total_price"])

	// The cart is empty again and checkout on it is rejected.
	resp = call(t, srv, http.MethodGet, "/api/carts", customerToken, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Empty(t, resp.data(t)["cart_items"])

	resp = call(t, srv, http.MethodPost, "/api/orders", customerToken, nil)
	assert.Equal(t, http.StatusConflict, resp.Status)

	// The order shows up in history.
	resp = call(t, srv, http.MethodGet, "/api/orders", customerToken, nil)
	require.Equal(t, http.StatusOK, resp.Status)
}

func TestRoleGates(t *testing.T) {
	srv, _ := newTestServer(t)

	vendorToken := registerAndLogin(t, srv, "vendor", true)
	customerToken := registerAndLogin(t, srv, "customer", false)

	// A vendor has no cart.
	resp := call(t, srv, http.MethodGet, "/api/carts", vendorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	// A customer cannot list products for sale.
	resp = call(t, srv, http.MethodPost, "/api/products", customerToken, map[string]interface{}{
		"name":               "Contraband",
		"description":        "nope",
		"original_price":     "1.00",
		"available_quantity": 1,
		"category":           "Electronics",
	})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	// No token at all is unauthorized.
	resp = call(t, srv, http.MethodGet, "/api/carts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = call(t, srv, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestLogoutRevokesAccess(t *testing.T) {
	srv, _ := newTestServer(t)

	token := registerAndLogin(t, srv, "customer", false)

	resp := call(t, srv, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	resp = call(t, srv, http.MethodPost, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.Status)

	// The same token is dead immediately, well before its expiry.
	resp = call(t, srv, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	// Short password fails schema validation with field errors.
	resp := call(t, srv, http.MethodPost, "/api/users/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	errs, ok := resp.Envelope["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "password")

	// Malformed JSON is a plain bad request.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/users/register", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	raw, err := srv.Client().Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestUnknownProductIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/api/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = call(t, srv, http.MethodGet, fmt.Sprintf("/api/products/%s", "abc"), "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
}
