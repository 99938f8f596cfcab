package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/users"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
)

func TestSignupSuccess(t *testing.T) {
	api, _ := newTestAPI(t, testDeps{
		users: &fakeUserStore{
			insertFn: func(_ context.Context, nu users.NewUser) (users.User, error) {
				return users.User{ID: "user-1", Name: nu.Name, Email: nu.Email, Role: nu.Role}, nil
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "hunter2hunter2", "role": "user",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}
}

func TestSignupValidation(t *testing.T) {
	api, _ := newTestAPI(t, testDeps{users: &fakeUserStore{}})

	tests := []map[string]string{
		{"email": "a@b.com", "password": "longenough", "role": "user"},            // no name
		{"name": "A", "email": "not-an-email", "password": "longenough", "role": "user"},
		{"name": "A", "email": "a@b.com", "password": "short", "role": "user"},    // password too short
		{"name": "A", "email": "a@b.com", "password": "longenough", "role": "superadmin"},
	}
	for i, body := range tests {
		w := doJSON(t, api, http.MethodPost, "/auth/signup", "", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, w.Code)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	api, _ := newTestAPI(t, testDeps{
		users: &fakeUserStore{
			insertFn: func(context.Context, users.NewUser) (users.User, error) {
				return users.User{}, apperr.New(apperr.CodeInvalidRequest, "email already registered")
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "hunter2hunter2", "role": "user",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	api, keys := newTestAPI(t, testDeps{
		users: &fakeUserStore{
			authFn: func(_ context.Context, email, password string) (users.User, error) {
				return users.User{ID: "user-1", Email: email, Role: "user"}, nil
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}

	claims, err := keys.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != "user-1" || !claims.HasRole("user") {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	api, _ := newTestAPI(t, testDeps{
		users: &fakeUserStore{
			authFn: func(context.Context, string, string) (users.User, error) {
				return users.User{}, apperr.New(apperr.CodeUnauthorized, "invalid email or password")
			},
		},
	})

	w := doJSON(t, api, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
