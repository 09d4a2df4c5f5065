package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/metrics"
	"github.com/polkiloo/marketplace/internal/server/http/handlers"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. A nil m disables
// request metrics and the /metrics endpoint.
func Setup(facade handlers.MarketplaceFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	if m != nil {
		engine.Use(m.Middleware())
	}
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	userHandler := handlers.NewUserHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/health", healthHandler.Check)
	if m != nil {
		engine.GET("/metrics", m.Handler())
	}

	api := engine.Group("/api")

	users := api.Group("/users")
	users.POST("", userHandler.Register)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/items", orderHandler.AddItem)
	orders.POST("/:id/pay", orderHandler.Pay)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.GET("/:id/history", orderHandler.History)

	payments := api.Group("/payments")
	payments.POST("/pay", paymentHandler.Pay)
	payments.GET("/history/:order_id", paymentHandler.History)
	payments.POST("/test-concurrent", paymentHandler.TestConcurrent)

	return engine
}
