package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/internal/config"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/internal/infrastructure/cache"
	"github.com/mverbeke/kassa-api/internal/infrastructure/database"
	infraRepo "github.com/mverbeke/kassa-api/internal/infrastructure/repository"
	"github.com/mverbeke/kassa-api/internal/presentation/http/handler"
	"github.com/mverbeke/kassa-api/internal/presentation/http/routes"
	"github.com/mverbeke/kassa-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	productRepo := infraRepo.NewProductRepository(db)
	movementRepo := infraRepo.NewStockMovementRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)
	loyaltyRepo := infraRepo.NewLoyaltyCardRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	// Purge expired idempotency keys in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: failed to purge expired idempotency keys: %v", err)
			}
		}
	}()

	// Recent-sales cache; falls back to a no-op when Redis is disabled
	var salesCache repository.SalesCache = cache.NoopSalesCache{}
	if cfg.Redis.Enabled {
		salesCache = cache.NewRedisSalesCache(&cfg.Redis, cfg.Sales.CacheTTL)
	}

	// Initialize services
	authService := service.NewAuthService(employeeRepo, jwtManager)
	productService := service.NewProductService(productRepo, movementRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, loyaltyRepo, salesCache, cfg.Sales.RecentLimit)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	reportService := service.NewReportService(saleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Sale:     handler.NewSaleHandler(saleService),
		Loyalty:  handler.NewLoyaltyHandler(loyaltyService),
		Employee: handler.NewEmployeeHandler(employeeService),
		Report:   handler.NewReportHandler(reportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
