package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/orders"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/stores/kafka"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

// Checkout converts the caller's cart into an order. The heavy lifting
// is one transaction in the orders store; on success an order-created
// event goes out best-effort.
func (h *Handler) Checkout(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	orderID, err := h.o.Checkout(c.Request.Context(), claims.Subject, status)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("checkout completed", slog.String(logkey.TraceID, traceID),
		slog.String(logkey.UserID, claims.Subject), slog.String("OrderID", orderID))

	h.publishOrderCreated(traceID, orderID, claims.Subject, string(status))

	c.JSON(http.StatusCreated, gin.H{"message": "order created successfully", "order_id": orderID})
}

func (h *Handler) publishOrderCreated(traceID, orderID, userID, status string) {
	if h.k == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := json.Marshal(kafka.OrderCreatedEvent{
			OrderID:   orderID,
			UserID:    userID,
			Status:    status,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal order created event", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.k.ProduceMessage(ctx, kafka.TopicOrderCreated, []byte(orderID), data); err != nil {
			slog.Error("failed to publish order created event", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
			return
		}
		slog.Info("order created event published", slog.String(logkey.TraceID, traceID), slog.String("OrderID", orderID))
	}()
}
