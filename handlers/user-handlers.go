package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/users"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

func (h *Handler) Signup(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(newUser); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "name, valid email, password (min 8 chars) and role (admin|user) are required"))
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), newUser)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	slog.Info("user created", slog.String(logkey.TraceID, traceID), slog.String(logkey.UserID, user.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully", "user_id": user.ID})
}

func (h *Handler) Login(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(c, traceID, apperr.New(apperr.CodeInvalidRequest, "email and password are required"))
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, traceID, err)
		return
	}

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Roles:            []string{user.Role},
	}
	token, err := h.a.GenerateToken(claims)
	if err != nil {
		respondError(c, traceID, apperr.Wrap(apperr.CodeInternal, "failed to issue token", err))
		return
	}

	slog.Info("login successful", slog.String(logkey.TraceID, traceID), slog.String(logkey.UserID, user.ID))
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}
