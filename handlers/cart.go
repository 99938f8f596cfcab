package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

func (h *Handler) AddToCart(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "product_id is required and quantity must be greater than zero"))
		return
	}

	item, err := h.cart.AddItem(c.Request.Context(), claims.Subject, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceID),
		slog.String(logkey.UserID, claims.Subject), slog.String("ProductID", req.ProductID), slog.Int("Quantity", item.Quantity))
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "quantity must be greater than zero"))
		return
	}

	item, err := h.cart.UpdateItem(c.Request.Context(), claims.Subject, c.Param("productID"), req.Quantity)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("cart item updated", slog.String(logkey.TraceID, traceID),
		slog.String(logkey.UserID, claims.Subject), slog.String("ProductID", item.ProductID), slog.Int("Quantity", item.Quantity))
	c.JSON(http.StatusOK, item)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	productID := c.Param("productID")
	if err := h.cart.RemoveItem(c.Request.Context(), claims.Subject, productID); err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("cart item removed", slog.String(logkey.TraceID, traceID),
		slog.String(logkey.UserID, claims.Subject), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

func (h *Handler) ViewCart(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	lines, err := h.cart.GetCartItems(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}
