package orders

import "github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"

type Status string

const (
	StatusPaid      Status = "paid"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a caller-supplied order status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPaid, StatusPending, StatusCancelled:
		return Status(s), nil
	}
	return "", apperr.Newf(apperr.CodeInvalidRequest, "invalid order status %q", s)
}
