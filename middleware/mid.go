package middleware

import (
	"fmt"

	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
)

type Mid struct {
	keys *auth.Keys
}

func NewMid(keys *auth.Keys) (*Mid, error) {
	if keys == nil {
		return nil, fmt.Errorf("auth keys can't be nil")
	}
	return &Mid{keys: keys}, nil
}
