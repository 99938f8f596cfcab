package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/cart"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/orders"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/products"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/users"
)

type fakeUserStore struct {
	insertFn func(context.Context, users.NewUser) (users.User, error)
	authFn   func(context.Context, string, string) (users.User, error)
}

func (f *fakeUserStore) InsertUser(ctx context.Context, nu users.NewUser) (users.User, error) {
	return f.insertFn(ctx, nu)
}

func (f *fakeUserStore) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	return f.authFn(ctx, email, password)
}

type fakeProductStore struct {
	insertFn func(context.Context, products.NewProduct) (products.Product, error)
	getFn    func(context.Context, string) (products.Product, error)
	updateFn func(context.Context, string, products.NewProduct) (products.Product, error)
	deleteFn func(context.Context, string) error
	listFn   func(context.Context, products.ListFilter) ([]products.Product, error)
	searchFn func(context.Context, string, int, int) ([]products.Product, error)
}

func (f *fakeProductStore) InsertProduct(ctx context.Context, np products.NewProduct) (products.Product, error) {
	return f.insertFn(ctx, np)
}

func (f *fakeProductStore) GetProductByID(ctx context.Context, id string) (products.Product, error) {
	return f.getFn(ctx, id)
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, id string, np products.NewProduct) (products.Product, error) {
	return f.updateFn(ctx, id, np)
}

func (f *fakeProductStore) DeleteProduct(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeProductStore) ListProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeProductStore) SearchProducts(ctx context.Context, keyword string, page, pageSize int) ([]products.Product, error) {
	return f.searchFn(ctx, keyword, page, pageSize)
}

type fakeCartStore struct {
	addFn    func(context.Context, string, string, int) (cart.Item, error)
	updateFn func(context.Context, string, string, int) (cart.Item, error)
	removeFn func(context.Context, string, string) error
	getFn    func(context.Context, string) ([]cart.Line, error)
}

func (f *fakeCartStore) AddItem(ctx context.Context, userID, productID string, quantity int) (cart.Item, error) {
	return f.addFn(ctx, userID, productID, quantity)
}

func (f *fakeCartStore) UpdateItem(ctx context.Context, userID, productID string, quantity int) (cart.Item, error) {
	return f.updateFn(ctx, userID, productID, quantity)
}

func (f *fakeCartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	return f.removeFn(ctx, userID, productID)
}

func (f *fakeCartStore) GetCartItems(ctx context.Context, userID string) ([]cart.Line, error) {
	return f.getFn(ctx, userID)
}

type fakeOrderStore struct {
	checkoutFn func(context.Context, string, orders.Status) (string, error)
	listFn     func(context.Context, string) ([]orders.Order, error)
	getFn      func(context.Context, string, string) (orders.OrderDetail, error)
}

func (f *fakeOrderStore) Checkout(ctx context.Context, userID string, status orders.Status) (string, error) {
	return f.checkoutFn(ctx, userID, status)
}

func (f *fakeOrderStore) ListOrders(ctx context.Context, userID string) ([]orders.Order, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, userID, orderID string) (orders.OrderDetail, error) {
	return f.getFn(ctx, userID, orderID)
}

type testDeps struct {
	users    *fakeUserStore
	products *fakeProductStore
	cart     *fakeCartStore
	orders   *fakeOrderStore
}

func newTestAPI(t *testing.T, deps testDeps) (*gin.Engine, *auth.Keys) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	keys, err := auth.NewKeys(privateKey, &privateKey.PublicKey)
	if err != nil {
		t.Fatalf("NewKeys: %v", err)
	}

	api, err := API(keys, deps.users, deps.products, deps.cart, deps.orders, nil)
	if err != nil {
		t.Fatalf("API: %v", err)
	}
	return api, keys
}

func bearerToken(t *testing.T, keys *auth.Keys, subject string, roles ...string) string {
	t.Helper()
	token, err := keys.GenerateToken(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Roles:            roles,
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, api *gin.Engine, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error envelope: %v (body: %s)", err, w.Body.String())
	}
	return resp.Error.Code
}
