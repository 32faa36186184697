package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/api/handlers"
	"github.com/jafarshop/paymentrelay/internal/api/middleware"
	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/service"
	"github.com/jafarshop/paymentrelay/internal/telemetry"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *service.Services, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	// tracing wraps the access log so it can report the trace id
	router.Use(otelgin.Middleware(telemetry.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	})

	// PayPal wallet flow
	paypalRoutes := router.Group("/paypal-api")
	{
		paypalRoutes.POST("/client-token", handlers.HandleClientToken(svcs.PayPal, logger))
		paypalRoutes.POST("/checkout/orders/create", handlers.HandleCreateOrderPassThrough(svcs.PayPal, logger))
		paypalRoutes.POST("/checkout/orders/:orderId/capture", handlers.HandleCaptureOrder(svcs.PayPal, "orderId", logger))
	}

	orderRoutes := router.Group("/api/orders")
	{
		orderRoutes.POST("", handlers.HandleCreateOrder(svcs.PayPal, logger))
		orderRoutes.POST("/:orderID/capture", handlers.HandleCaptureOrder(svcs.PayPal, "orderID", logger))
	}

	// Stripe card flow
	stripeRoutes := router.Group("/stripe-api")
	{
		stripeRoutes.POST("/create-payment-intent", handlers.HandleCreatePaymentIntent(svcs.Stripe, logger))
		stripeRoutes.POST("/confirm-payment-intent", handlers.HandleConfirmPaymentIntent(svcs.Stripe, logger))
	}

	// Everything else is a static asset or a 404
	router.NoRoute(staticFiles(cfg.StaticDir))

	return router
}

// staticFiles serves files under dir. Directories without an index.html,
// missing files and any path with a dot-prefixed segment are 404s.
func staticFiles(dir string) gin.HandlerFunc {
	fileServer := http.FileServer(gin.Dir(dir, false))

	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodGet && method != http.MethodHead {
			notFound(c)
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if dir == "" || hidden(name) || !servable(dir, name) {
			notFound(c)
			return
		}

		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": "No route for " + c.Request.Method + " " + c.Request.URL.Path})
}

func hidden(name string) bool {
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

func servable(dir, name string) bool {
	full := filepath.Join(dir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	index, err := os.Stat(filepath.Join(full, "index.html"))
	return err == nil && !index.IsDir()
}
