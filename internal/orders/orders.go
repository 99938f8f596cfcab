// Package orders owns the checkout transaction and the order history
// reads. Orders are write-once: only checkout creates them, nothing
// here ever mutates one afterward.
package orders

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

// ListOrders returns the user's orders, most recent first.
func (c *Conf) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, total_price, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to fetch orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "failed to scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to iterate orders", err)
	}
	return out, nil
}

// GetOrder returns one order with its items, scoped to the owning user.
func (c *Conf) GetOrder(ctx context.Context, userID, orderID string) (OrderDetail, error) {
	var detail OrderDetail
	err := c.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_price, status, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(&detail.ID, &detail.UserID, &detail.TotalPrice, &detail.Status, &detail.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderDetail{}, apperr.New(apperr.CodeNotFound, "order not found")
		}
		return OrderDetail{}, apperr.Wrap(apperr.CodeInternal, "failed to fetch order", err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_per_unit
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return OrderDetail{}, apperr.Wrap(apperr.CodeInternal, "failed to fetch order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PricePerUnit); err != nil {
			return OrderDetail{}, apperr.Wrap(apperr.CodeInternal, "failed to scan order item", err)
		}
		detail.Items = append(detail.Items, it)
	}
	if err := rows.Err(); err != nil {
		return OrderDetail{}, apperr.Wrap(apperr.CodeInternal, "failed to iterate order items", err)
	}
	return detail, nil
}
