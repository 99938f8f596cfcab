package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	keys, err := NewKeys(privateKey, &privateKey.PublicKey)
	if err != nil {
		t.Fatalf("NewKeys: %v", err)
	}
	return keys
}

func TestTokenRoundTrip(t *testing.T) {
	keys := testKeys(t)

	token, err := keys.GenerateToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		Roles:            []string{RoleUser},
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := keys.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject = %q, want user-123", claims.Subject)
	}
	if !claims.HasRole(RoleUser) {
		t.Error("claims should carry the user role")
	}
	if claims.HasRole(RoleAdmin) {
		t.Error("claims should not carry the admin role")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	keys := testKeys(t)

	token, err := keys.GenerateToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Roles: []string{RoleUser},
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := keys.ValidateToken(token); err == nil {
		t.Fatal("expired token should be rejected")
	}
}

func TestValidateTokenRejectsOtherKey(t *testing.T) {
	keys := testKeys(t)
	otherKeys := testKeys(t)

	token, err := keys.GenerateToken(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		Roles:            []string{RoleUser},
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := otherKeys.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different key should be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	keys := testKeys(t)
	if _, err := keys.ValidateToken("not-a-token"); err == nil {
		t.Fatal("garbage token should be rejected")
	}
}
