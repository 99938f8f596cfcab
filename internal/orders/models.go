package orders

import "time"

type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderItem records a purchased quantity at the price frozen when the
// order was placed; later catalog edits never touch it.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
}

type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}
