package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/orders"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
)

func TestCheckoutSuccess(t *testing.T) {
	var gotUser string
	var gotStatus orders.Status
	api, keys := newTestAPI(t, testDeps{
		orders: &fakeOrderStore{
			checkoutFn: func(_ context.Context, userID string, status orders.Status) (string, error) {
				gotUser, gotStatus = userID, status
				return "order-42", nil
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "user-1", auth.RoleUser), map[string]string{"status": "paid"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}
	if gotUser != "user-1" || gotStatus != orders.StatusPaid {
		t.Fatalf("store called with (%q, %q)", gotUser, gotStatus)
	}

	var resp struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.OrderID != "order-42" {
		t.Fatalf("order_id = %q, want order-42", resp.OrderID)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	api, _ := newTestAPI(t, testDeps{orders: &fakeOrderStore{}})

	w := doJSON(t, api, http.MethodPost, "/checkout", "", map[string]string{"status": "paid"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCheckoutForbiddenForAdmin(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{orders: &fakeOrderStore{}})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "admin-1", auth.RoleAdmin), map[string]string{"status": "paid"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCheckoutInvalidStatus(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{orders: &fakeOrderStore{}})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "user-1", auth.RoleUser), map[string]string{"status": "shipped"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != string(apperr.CodeInvalidRequest) {
		t.Fatalf("code = %s, want INVALID_REQUEST", code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{
		orders: &fakeOrderStore{
			checkoutFn: func(context.Context, string, orders.Status) (string, error) {
				return "", apperr.New(apperr.CodeInvalidRequest, "cart is empty")
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "user-1", auth.RoleUser), map[string]string{"status": "pending"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if code := errorCode(t, w); code != string(apperr.CodeInvalidRequest) {
		t.Fatalf("code = %s, want INVALID_REQUEST", code)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{
		orders: &fakeOrderStore{
			checkoutFn: func(context.Context, string, orders.Status) (string, error) {
				return "", apperr.Newf(apperr.CodeInsufficientStock,
					"not enough stock for product %q: requested 5, available 3", "Widget")
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "user-1", auth.RoleUser), map[string]string{"status": "paid"})

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if code := errorCode(t, w); code != string(apperr.CodeInsufficientStock) {
		t.Fatalf("code = %s, want INSUFFICIENT_STOCK", code)
	}
}

func TestCheckoutInternalErrorHidesDetail(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{
		orders: &fakeOrderStore{
			checkoutFn: func(context.Context, string, orders.Status) (string, error) {
				return "", apperr.Wrap(apperr.CodeInternal, "checkout failed",
					context.DeadlineExceeded)
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/checkout",
		bearerToken(t, keys, "user-1", auth.RoleUser), map[string]string{"status": "paid"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Message != "checkout failed" {
		t.Fatalf("message = %q, should be the safe message only", resp.Error.Message)
	}
}
