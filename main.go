package main

import (
	"time"

	"product-import-api/common"
	"product-import-api/exports"
	"product-import-api/imports"
	"product-import-api/products"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) {
	// Migrate domain models
	products.AutoMigrate(db)

	// Migrate telemetry tables
	common.AutoMigrateMetrics(db)
}

func main() {
	common.LoadEnv()
	common.InitLogger(common.Getenv("APP_ENV", "development"))
	defer common.Log.Sync()

	// Initialize database
	db := common.Init()
	Migrate(db)

	// Ensure database connection is closed on exit
	sqlDB, err := db.DB()
	if err != nil {
		common.Log.Warn("failed to get sql.DB", zap.Error(err))
	} else {
		defer sqlDB.Close()
	}

	// Setup Gin router
	r := gin.Default()
	r.RedirectTrailingSlash = false

	// CORS for the dev frontends
	r.Use(cors.New(cors.Config{
		AllowOrigins:     common.CorsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(common.MetricsMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Product Management API"})
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	products.RegisterRoutes(api.Group("/products"))
	imports.RegisterRoutes(api)
	exports.RegisterRoutes(api.Group("/exports"))

	// Start server
	port := common.Getenv("PORT", "8001")

	common.Log.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		common.Log.Fatal("failed to start server", zap.Error(err))
	}
}
