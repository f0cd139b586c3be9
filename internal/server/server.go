// Package server assembles the HTTP surface: middleware chain, API routes,
// documentation, health and metrics endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // registers the swagger document
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

// Services bundles the engines the API exposes.
type Services struct {
	Users        services.UserServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Dashboard    services.DashboardServicer
}

// NewServices builds every engine over one store.
func NewServices(s store.Store, catalog []models.CategoryDetails, recentLimit int) Services {
	return Services{
		Users:        services.NewUserService(s),
		Categories:   services.NewCategoryService(s, catalog),
		Transactions: services.NewTransactionService(s),
		Dashboard:    services.NewDashboardService(s, recentLimit),
	}
}

// Options tune the middleware chain. A non-positive RateLimitRPS disables
// rate limiting; a non-positive RequestTimeout leaves request contexts unbounded.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// NewRouter wires handlers and middleware into a Gin engine. ctx bounds the
// background sweep of the rate limiter.
func NewRouter(ctx context.Context, svc Services, health handlers.Pinger, opts Options) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.RequestMetrics())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
		go limiter.RunCleanup(ctx)
		router.Use(limiter.Middleware())
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", handlers.NewHealthHandler(health).Health)

	userHandler := handlers.NewUserHandler(svc.Users)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// API v1 group
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Timeout(opts.RequestTimeout))

	// User directory
	users := v1.Group("/users")
	users.POST("", userHandler.CreateUser)
	users.GET("", userHandler.ListActiveUsers)
	users.GET("/count", userHandler.CountActiveUsers)
	users.GET("/exists", userHandler.EmailExists)
	users.GET("/by-email/:email", userHandler.GetUserByEmail)
	users.GET("/:id", userHandler.GetUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeactivateUser)

	// Shared catalog
	v1.GET("/categories/defaults", categoryHandler.ListDefaultCategories)
	v1.POST("/categories/defaults/seed", categoryHandler.SeedDefaultCategories)

	// Routes acting on behalf of the X-User-ID caller
	scoped := v1.Group("/")
	scoped.Use(middleware.UserIdentity())

	categories := scoped.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := scoped.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/search", transactionHandler.SearchTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	scoped.GET("/dashboard", dashboardHandler.GetDashboard)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.UserIDHeader+", X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
