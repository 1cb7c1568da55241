package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SaniatAzam/invoice-generator/internal/api/handlers"
	"github.com/SaniatAzam/invoice-generator/internal/api/middleware"
	"github.com/SaniatAzam/invoice-generator/internal/config"
	"github.com/SaniatAzam/invoice-generator/internal/render"
	"github.com/SaniatAzam/invoice-generator/internal/services"
	"github.com/SaniatAzam/invoice-generator/internal/storage"
)

// SetupRouter configures and returns the main Gin engine. archive may be nil
// when archiving is disabled; archiveQueue then should be a no-op queue.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, archiveQueue services.IArchiveQueue, archive storage.IInvoiceArchive) *gin.Engine {
	// Initialize services needed by API handlers HERE
	catalogService := services.NewCatalogService(db, rdb, cfg)
	invoiceService := services.NewInvoiceService(db, cfg, archiveQueue)
	cartService := services.NewCartService(services.NewRedisCartStore(rdb, cfg.CartTTL), catalogService, invoiceService)
	renderer := render.NewPDFRenderer(render.Shop{Name: cfg.ShopName, Address: cfg.ShopAddress})

	r := gin.New()

	// Initialize Middleware
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg.RateLimitRefillRate, cfg.RateLimitBucketSize)

	// Apply global middleware first (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CorsAllowedOrigins))
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	catalogHandler := handlers.NewRestCatalogHandler(catalogService)
	invoiceHandler := handlers.NewRestInvoiceHandler(invoiceService, renderer, archive)
	cartHandler := handlers.NewRestCartHandler(cartService)

	// Paths match the ones the invoice form already calls.
	r.GET("/items", catalogHandler.ListItems)
	r.POST("/save-invoice", invoiceHandler.SaveInvoice)
	r.PUT("/update-invoice/:invoiceNo", invoiceHandler.UpdateInvoice)
	r.DELETE("/delete-invoice/:invoiceNo", invoiceHandler.DeleteInvoice)

	r.GET("/invoice/:invoiceNo", invoiceHandler.GetInvoice)
	r.GET("/invoice/:invoiceNo/print", invoiceHandler.PrintInvoice)
	r.GET("/invoice/:invoiceNo/archive", invoiceHandler.GetArchiveLink)

	cartGroup := r.Group("/cart")
	{
		cartGroup.POST("", cartHandler.OpenCart)
		cartGroup.GET("/:id", cartHandler.GetCart)
		cartGroup.POST("/:id/select", cartHandler.SelectItem)
		cartGroup.POST("/:id/lines", cartHandler.AddLine)
		cartGroup.POST("/:id/checkout", cartHandler.Checkout)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
func SetupServiceRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log.Logger))

	serviceHandler := handlers.NewServiceApiHandler(services.NewCatalogService(db, rdb, cfg), shutdownChan)
	r.POST("/api", serviceHandler.HandleRequest)
	return r
}
