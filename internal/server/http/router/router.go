package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/posdesk/fulfillment/internal/server/http/handlers"
	"github.com/posdesk/fulfillment/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.FulfillmentFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	kitchenHandler := handlers.NewKitchenHandler(facade)
	queueHandler := handlers.NewQueueHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Submit)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.POST("/:id/discount", orderHandler.Discount)
	orders.POST("/:id/serve", orderHandler.Serve)

	tickets := api.Group("/tickets")
	tickets.POST("/:id/start", kitchenHandler.Start)
	tickets.POST("/:id/complete", kitchenHandler.Complete)

	api.GET("/kitchen/tickets", kitchenHandler.List)

	queue := api.Group("/queue")
	queue.POST("/join", queueHandler.Join)
	queue.PUT("/:id/call", queueHandler.Call)
	queue.PUT("/:id/serve", queueHandler.Serve)
	queue.DELETE("/:id", queueHandler.Cancel)
	queue.GET("/current", queueHandler.Current)
	queue.GET("/stats", queueHandler.Stats)

	return engine
}
