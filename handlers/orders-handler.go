package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
)

func (h *Handler) ListOrders(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	list, err := h.o.ListOrders(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) GetOrderDetail(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := currentClaims(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	detail, err := h.o.GetOrder(c.Request.Context(), claims.Subject, c.Param("id"))
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
