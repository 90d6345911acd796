package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"backoffice/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// Store is probed by /health when set.
	Store Pinger
}

type Server struct {
	engine    *gin.Engine
	products  *service.ProductService
	inventory *service.InventoryService
	orders    *service.OrderService
	store     Pinger
}

func NewServer(products *service.ProductService, inventory *service.InventoryService, orders *service.OrderService, opts Options) *Server {
	r := gin.New()
	r.Use(requestID(), requestLogger(), recovery(), corsMiddleware(opts.AllowedOrigins))
	s := &Server{engine: r, products: products, inventory: inventory, orders: orders, store: opts.Store}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	{
		catalog := api.Group("/catalog")
		catalog.GET("", s.listProducts)
		catalog.GET(":id", s.getProduct)
		catalog.POST("", s.createProduct)
		catalog.PUT(":id", s.updateProduct)
		catalog.DELETE(":id", s.deleteProduct)

		inventory := api.Group("/inventory")
		inventory.GET("", s.listInventory)
		inventory.POST("/adjust", s.adjustInventory)
		inventory.GET(":productId", s.getInventory)
		inventory.PUT(":productId", s.updateInventory)

		orders := api.Group("/orders")
		orders.GET("", s.listOrders)
		orders.GET(":id", s.getOrder)
		orders.POST("", s.createOrder)
		orders.PUT(":id/status", s.updateOrderStatus)
		orders.PUT(":id", s.updateOrder)
		orders.DELETE(":id", s.deleteOrder)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Error: "Route not found"})
	})
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok", "message": "Server is running"})
}
