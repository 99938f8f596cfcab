package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
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

// AddItem upserts a cart entry, summing quantities. Stock must cover
// the existing cart quantity plus the requested one; checkout
// re-validates under lock, this is an early rejection for the caller.
func (c *Conf) AddItem(ctx context.Context, userID, productID string, quantity int) (Item, error) {
	var item Item
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var (
			productName string
			stock       int
		)
		err := tx.QueryRowContext(ctx,
			`SELECT name, stock FROM products WHERE id = $1`, productID).Scan(&productName, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.New(apperr.CodeNotFound, "product not found")
			}
			return apperr.Wrap(apperr.CodeInternal, "failed to add item to cart", err)
		}
		if stock <= 0 {
			return apperr.New(apperr.CodeOutOfStock, "product is out of stock")
		}

		var existing int
		err = tx.QueryRowContext(ctx,
			`SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`,
			userID, productID).Scan(&existing)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return apperr.Wrap(apperr.CodeInternal, "failed to add item to cart", err)
		}

		if existing+quantity > stock {
			return apperr.Newf(apperr.CodeOutOfStock,
				"cannot add %d items to cart, only %d left in stock", quantity, stock-existing)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
			RETURNING id, quantity
		`, userID, productID, quantity).Scan(&item.ID, &item.Quantity)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, "failed to add item to cart", err)
		}
		item.UserID = userID
		item.ProductID = productID
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateItem replaces the quantity of an existing entry. Stock is not
// re-validated here; checkout does that under lock.
func (c *Conf) UpdateItem(ctx context.Context, userID, productID string, quantity int) (Item, error) {
	var item Item
	err := c.db.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
		RETURNING id, quantity
	`, userID, productID, quantity).Scan(&item.ID, &item.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, apperr.New(apperr.CodeNotFound, "item not found in cart")
		}
		return Item{}, apperr.Wrap(apperr.CodeInternal, "failed to update cart item", err)
	}
	item.UserID = userID
	item.ProductID = productID
	return item, nil
}

func (c *Conf) RemoveItem(ctx context.Context, userID, productID string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to remove cart item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to remove cart item", err)
	}
	if n == 0 {
		return apperr.New(apperr.CodeNotFound, "item not found in cart")
	}
	return nil
}

// GetCartItems returns the user's cart joined with the current product
// name and price.
func (c *Conf) GetCartItems(ctx context.Context, userID string) ([]Line, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id
	`, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to fetch cart items", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "failed to scan cart item", err)
		}
		l.Subtotal = l.UnitPrice * float64(l.Quantity)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to iterate cart items", err)
	}
	return lines, nil
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
