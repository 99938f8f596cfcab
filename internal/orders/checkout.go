package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
)

// cartLine is a cart entry joined with its product inside the checkout
// transaction, after the product rows have been locked.
type cartLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Stock       int
}

// planCheckout validates the locked cart snapshot and computes the
// order total. It never touches the database, so the stock and total
// rules are testable in isolation.
func planCheckout(lines []cartLine) (float64, error) {
	if len(lines) == 0 {
		return 0, apperr.New(apperr.CodeInvalidRequest, "cart is empty")
	}

	var total float64
	for _, l := range lines {
		if l.Quantity > l.Stock {
			return 0, apperr.Newf(apperr.CodeInsufficientStock,
				"not enough stock for product %q: requested %d, available %d",
				l.ProductName, l.Quantity, l.Stock)
		}
		total += float64(l.Quantity) * l.UnitPrice
	}
	if total <= 0 {
		return 0, apperr.New(apperr.CodeInvalidRequest, "invalid total price, cannot proceed with checkout")
	}
	return total, nil
}

// Checkout converts the user's cart into one order inside a single
// transaction: snapshot entries with quantity > 0 locking their product
// rows, validate stock and total, create the order and its items at
// current prices, decrement stock per item, clear the whole cart.
// Any failure rolls everything back. The row locks taken by the
// snapshot serialize concurrent checkouts touching the same products,
// so two buyers can't both pass the stock check against a stale value.
func (c *Conf) Checkout(ctx context.Context, userID string, status Status) (string, error) {
	var orderID string
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT ci.product_id, p.name, ci.quantity, p.price, p.stock
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.user_id = $1 AND ci.quantity > 0
			ORDER BY ci.product_id
			FOR UPDATE OF p
		`, userID)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
		}

		var lines []cartLine
		for rows.Next() {
			var l cartLine
			if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Stock); err != nil {
				rows.Close()
				return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
			}
			lines = append(lines, l)
		}
		if err := rows.Close(); err != nil {
			return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
		}
		if err := rows.Err(); err != nil {
			return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
		}

		total, err := planCheckout(lines)
		if err != nil {
			return err
		}

		orderID = uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, user_id, total_price, status)
			VALUES ($1, $2, $3, $4)
		`, orderID, userID, total, status)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
		}

		for _, l := range lines {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
				VALUES ($1, $2, $3, $4)
			`, orderID, l.ProductID, l.Quantity, l.UnitPrice)
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
			}

			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock = stock - $2, updated_at = NOW()
				WHERE id = $1 AND stock >= $2
			`, l.ProductID, l.Quantity)
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
			}
			if n != 1 {
				return apperr.Newf(apperr.CodeInsufficientStock,
					"not enough stock for product %q: requested %d, available %d",
					l.ProductName, l.Quantity, l.Stock)
			}
		}

		// Clear the entire cart, including entries the snapshot skipped.
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return apperr.Wrap(apperr.CodeInternal, "checkout failed", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback tx: %w", er)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}
