package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/products"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

func (h *Handler) CreateProduct(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceID),
			slog.Int64("Size Received", c.Request.ContentLength))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "request body too large"))
		return
	}

	var np products.NewProduct
	if err := c.ShouldBindJSON(&np); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(np); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "name is required; price and stock must be non-negative"))
		return
	}

	product, err := h.p.InsertProduct(c.Request.Context(), np)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("product created", slog.String(logkey.TraceID, traceID), slog.String("ProductID", product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) AdminGetProduct(c *gin.Context) {
	h.getProductByParam(c)
}

func (h *Handler) GetProduct(c *gin.Context) {
	h.getProductByParam(c)
}

func (h *Handler) getProductByParam(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	product, err := h.p.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	var np products.NewProduct
	if err := c.ShouldBindJSON(&np); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(np); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "name is required; price and stock must be non-negative"))
		return
	}

	product, err := h.p.UpdateProduct(c.Request.Context(), productID, np)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("product updated", slog.String(logkey.TraceID, traceID), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "product updated successfully", "product": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("id")
	if err := h.p.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("product deleted", slog.String(logkey.TraceID, traceID), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "product successfully deleted"})
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	h.ListProducts(c)
}

func (h *Handler) ListProducts(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	filter := products.ListFilter{
		Category: c.Query("category"),
		SortBy:   c.DefaultQuery("sort_by", "id"),
	}

	var err error
	if filter.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "min_price must be a non-negative number"))
		return
	}
	if filter.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "max_price must be a non-negative number"))
		return
	}
	filter.Page, filter.PageSize, err = parsePagination(c)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	list, err := h.p.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *Handler) SearchProducts(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	keyword := c.Query("keyword")
	if keyword == "" {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "keyword is required"))
		return
	}
	page, pageSize, err := parsePagination(c)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	list, err := h.p.SearchProducts(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperr.New(apperr.CodeInvalidRequest, "price must be a non-negative number")
	}
	return &v, nil
}

func parsePagination(c *gin.Context) (page, pageSize int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, apperr.New(apperr.CodeInvalidRequest, "page must be a positive integer")
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		return 0, 0, apperr.New(apperr.CodeInvalidRequest, "page_size must be a positive integer")
	}
	return page, pageSize, nil
}
