package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mverbeke/kassa-api/internal/config"
	domainRepo "github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/internal/metrics"
	"github.com/mverbeke/kassa-api/internal/presentation/http/handler"
	"github.com/mverbeke/kassa-api/internal/presentation/http/middleware"
	"github.com/mverbeke/kassa-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Sale     *handler.SaleHandler
	Loyalty  *handler.LoyaltyHandler
	Employee *handler.EmployeeHandler
	Report   *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-employee rate limiter
		rateLimiter := middleware.NewEmployeeRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.Me)

	// Products and stock
	registerProductRoutes(protected, h)

	// Sales
	registerSaleRoutes(protected, h, deps)

	// Loyalty cards
	registerLoyaltyRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Employees (admin)
	registerEmployeeRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/movements", h.Product.StockHistory)

		// Catalog and stock writes are for managers and admins
		managed := products.Group("")
		managed.Use(middleware.RequireRole("admin", "manager"))
		{
			managed.POST("", h.Product.Create)
			managed.PUT("/:id", h.Product.Update)
			managed.DELETE("/:id", h.Product.Delete)
			managed.POST("/:id/adjust-stock", h.Product.AdjustStock)
		}
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/recent", h.Sale.Recent)
		sales.GET("/total", h.Sale.Total)
		sales.GET("/:id", h.Sale.Get)

		// Checkout uses idempotency middleware so a retried request
		// cannot record the sale twice
		sales.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Sales.IdempotencyTTL,
		}), h.Sale.Create)

		sales.POST("/:id/refund", middleware.RequireRole("admin", "manager"), h.Sale.Refund)
	}
}

func registerLoyaltyRoutes(protected *gin.RouterGroup, h *Handlers) {
	cards := protected.Group("/loyalty-cards")
	{
		cards.GET("", h.Loyalty.List)
		cards.POST("", h.Loyalty.Create)
		cards.GET("/number/:number", h.Loyalty.GetByNumber)
		cards.GET("/:id", h.Loyalty.Get)
		cards.PUT("/:id", h.Loyalty.Update)
		cards.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.Loyalty.Delete)
		cards.POST("/:id/points", middleware.RequireRole("admin", "manager"), h.Loyalty.AwardPoints)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole("admin", "manager"))
	{
		reports.GET("/daily", h.Report.Daily)
	}
}

func registerEmployeeRoutes(protected *gin.RouterGroup, h *Handlers) {
	employees := protected.Group("/employees")
	employees.Use(middleware.RequireRole("admin"))
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
		employees.PUT("/:id", h.Employee.Update)
		employees.DELETE("/:id", h.Employee.Delete)
	}
}
