package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/auth"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/cart"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/orders"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/products"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/internal/users"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/middleware"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/ctxmanage"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/logkey"
)

type UserStore interface {
	InsertUser(ctx context.Context, nu users.NewUser) (users.User, error)
	Authenticate(ctx context.Context, email, password string) (users.User, error)
}

type ProductStore interface {
	InsertProduct(ctx context.Context, np products.NewProduct) (products.Product, error)
	GetProductByID(ctx context.Context, productID string) (products.Product, error)
	UpdateProduct(ctx context.Context, productID string, np products.NewProduct) (products.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	ListProducts(ctx context.Context, filter products.ListFilter) ([]products.Product, error)
	SearchProducts(ctx context.Context, keyword string, page, pageSize int) ([]products.Product, error)
}

type CartStore interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (cart.Item, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (cart.Item, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	GetCartItems(ctx context.Context, userID string) ([]cart.Line, error)
}

type OrderStore interface {
	Checkout(ctx context.Context, userID string, status orders.Status) (string, error)
	ListOrders(ctx context.Context, userID string) ([]orders.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (orders.OrderDetail, error)
}

// EventProducer is satisfied by the kafka store; a nil producer just
// disables event publishing.
type EventProducer interface {
	ProduceMessage(ctx context.Context, topic string, key, value []byte) error
}

type Handler struct {
	u        UserStore
	p        ProductStore
	cart     CartStore
	o        OrderStore
	k        EventProducer
	a        *auth.Keys
	validate *validator.Validate
}

func NewHandler(u UserStore, p ProductStore, cart CartStore, o OrderStore, k EventProducer, a *auth.Keys) *Handler {
	return &Handler{
		u:        u,
		p:        p,
		cart:     cart,
		o:        o,
		k:        k,
		a:        a,
		validate: validator.New(),
	}
}

func API(a *auth.Keys, u UserStore, p ProductStore, cartStore CartStore, o OrderStore, k EventProducer) (*gin.Engine, error) {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(a)
	if err != nil {
		return nil, err
	}
	h := NewHandler(u, p, cartStore, o, k, a)

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	authGrp := r.Group("/auth")
	{
		authGrp.POST("/signup", h.Signup)
		authGrp.POST("/login", h.Login)
	}

	pub := r.Group("/products")
	{
		pub.GET("", h.ListProducts)
		pub.GET("/search", h.SearchProducts)
		pub.GET("/view/:id", h.GetProduct)
	}

	admin := r.Group("/admin/products")
	admin.Use(m.Authentication())
	{
		admin.POST("", m.Authorize(h.CreateProduct, auth.RoleAdmin))
		admin.GET("", m.Authorize(h.AdminListProducts, auth.RoleAdmin))
		admin.GET("/:id", m.Authorize(h.AdminGetProduct, auth.RoleAdmin))
		admin.PUT("/:id", m.Authorize(h.UpdateProduct, auth.RoleAdmin))
		admin.DELETE("/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))
	}

	user := r.Group("/")
	user.Use(m.Authentication())
	{
		user.POST("/cart", m.Authorize(h.AddToCart, auth.RoleUser))
		user.GET("/cart", m.Authorize(h.ViewCart, auth.RoleUser))
		user.PUT("/cart/:productID", m.Authorize(h.UpdateCartItem, auth.RoleUser))
		user.DELETE("/cart/:productID", m.Authorize(h.RemoveCartItem, auth.RoleUser))

		user.POST("/checkout", m.Authorize(h.Checkout, auth.RoleUser))

		user.GET("/orders", m.Authorize(h.ListOrders, auth.RoleUser))
		user.GET("/orders/:id", m.Authorize(h.GetOrderDetail, auth.RoleUser))
	}

	return r, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentClaims pulls the authenticated claims the middleware stored.
func currentClaims(c *gin.Context) (auth.Claims, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return claims, ok
}

// respondError maps a store error onto the taxonomy envelope. The
// underlying cause goes to the log, never to the caller.
func respondError(c *gin.Context, traceID string, err error) {
	code := apperr.CodeOf(err)
	slog.Error("request failed", slog.String(logkey.TraceID, traceID),
		slog.String("Code", string(code)), slog.String(logkey.ERROR, err.Error()))
	c.AbortWithStatusJSON(apperr.HTTPStatus(code),
		gin.H{"error": gin.H{"code": code, "message": apperr.MessageOf(err)}})
}

func abortUnauthorized(c *gin.Context) {
	traceID := ctxmanage.GetTraceIdOfRequest(c)
	slog.Error("claims not found", slog.String(logkey.TraceID, traceID))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		gin.H{"error": gin.H{"code": apperr.CodeUnauthorized, "message": "authentication required"}})
}
