package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"wheelstrust/internal/handler"
	"wheelstrust/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler      *handler.PaymentHandler
	CarHandler          *handler.CarHandler
	BookingHandler      *handler.BookingHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("/cars/order", deps.PaymentHandler.CreateCarOrder)
			payments.POST("/cars/verify", deps.PaymentHandler.VerifyCarPurchase)
			payments.POST("/services/order", deps.PaymentHandler.CreateServiceOrder)
			payments.POST("/services/verify", deps.PaymentHandler.VerifyBooking)
		}

		// Car browsing routes.
		cars := v1.Group("/cars")
		{
			cars.GET("", deps.CarHandler.GetAll)
			cars.GET("/:id", deps.CarHandler.Get)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.GET("", deps.BookingHandler.GetMine)
		}

		// Notification routes.
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.GetMine)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkRead)
			notifications.POST("/read-all", deps.NotificationHandler.MarkAllRead)
		}
	}

	return router
}
