package main

import (
	"fmt"
	"log"

	"github.com/agrolink/farmgate/internal/config"
	"github.com/agrolink/farmgate/internal/database"
	"github.com/agrolink/farmgate/internal/events"
	"github.com/agrolink/farmgate/internal/handlers"
	"github.com/agrolink/farmgate/internal/logging"
	"github.com/agrolink/farmgate/internal/middleware"
	"github.com/agrolink/farmgate/internal/repository"
	"github.com/agrolink/farmgate/internal/services"
	"github.com/gin-gonic/gin"

	_ "github.com/agrolink/farmgate/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           FarmGate API
// @version         1.0
// @description     Farm inventory marketplace backend
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	gin.SetMode(cfg.GinMode)

	logger := logging.New(cfg.GinMode)
	defer logger.Sync()

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	var notifier events.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier, err := events.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			log.Fatal("Failed to connect to Kafka:", err)
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	} else {
		notifier = events.NewLogNotifier(logger)
	}

	userRepo := repository.NewUserRepository(db)
	farmerRepo := repository.NewFarmerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	marketRepo := repository.NewMarketRepository(db)

	authService := services.NewAuthService(userRepo, notifier, logger, cfg.JWT.Secret, cfg.JWT.Expire)
	inventoryService := services.NewInventoryService(inventoryRepo, logger)
	marketService := services.NewMarketService(inventoryRepo, marketRepo, farmerRepo, db, logger)
	exportService := services.NewExportService(inventoryRepo, cfg.ExportSigningKey, logger)

	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.TestMode)

	authHandler := handlers.NewAuthHandler(authService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, exportService)
	marketHandler := handlers.NewMarketHandler(marketService)

	router := gin.Default()

	router.GET("/docs", handlers.SwaggerUIWithBearerFix())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgotPassword", authHandler.ForgotPassword)
			auth.POST("/verifyToken", authHandler.VerifyToken)
			auth.POST("/resetPassword", authHandler.ResetPassword)
		}

		api.GET("/market", marketHandler.Browse)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			scope := authenticated.Group("/farms/:farmId/farmers/:farmerId")
			{
				scope.POST("/inventory", inventoryHandler.AddToInventory)
				scope.GET("/inventory", inventoryHandler.ListInventory)
				scope.DELETE("/inventory", inventoryHandler.ClearInventory)
				scope.GET("/inventory/export", inventoryHandler.ExportInventory)
				scope.GET("/inventory/:id", inventoryHandler.GetInventoryItem)
				scope.PATCH("/inventory/:id", inventoryHandler.UpdateInventoryItem)
				scope.DELETE("/inventory/:id", inventoryHandler.DeleteInventoryItem)
			}

			market := authenticated.Group("/farms/:farmId/inventory/:id/market")
			{
				market.POST("", marketHandler.AddToMarket)
				market.DELETE("", marketHandler.RemoveFromMarket)
			}
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting FarmGate server on %s", addr)
	if cfg.TestMode {
		log.Println("TEST MODE ENABLED - Authentication bypassed")
	}
	log.Fatal(router.Run(addr))
}
