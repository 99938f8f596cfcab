package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"golang.org/x/crypto/bcrypt"
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertUser creates an account with a bcrypt-hashed password.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, nu.Email).Scan(&exists)
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeInternal, "failed to create user", err)
	}
	if exists {
		return User{}, apperr.New(apperr.CodeInvalidRequest, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeInternal, "failed to create user", err)
	}

	user := User{ID: uuid.NewString(), Name: nu.Name, Email: nu.Email, Role: nu.Role}
	err = c.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, user.ID, user.Name, user.Email, string(hash), user.Role).Scan(&user.CreatedAt)
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeInternal, "failed to create user", err)
	}
	return user, nil
}

// Authenticate verifies email/password and returns the account. Wrong
// email and wrong password are indistinguishable to the caller.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (User, error) {
	var (
		user User
		hash string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &hash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.New(apperr.CodeUnauthorized, "invalid email or password")
		}
		return User{}, apperr.Wrap(apperr.CodeInternal, "failed to authenticate user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, apperr.New(apperr.CodeUnauthorized, "invalid email or password")
	}
	return user, nil
}
