package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alexandre11021998/Zelo/internal/cache"
	"github.com/Alexandre11021998/Zelo/internal/config"
	"github.com/Alexandre11021998/Zelo/internal/database"
	"github.com/Alexandre11021998/Zelo/internal/handlers"
	adminHandlers "github.com/Alexandre11021998/Zelo/internal/handlers/admin"
	"github.com/Alexandre11021998/Zelo/internal/middleware"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/Alexandre11021998/Zelo/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Admin API - plano de controle do superadmin
// Responsável por: gestão de hospitais, provisionamento do primeiro admin
// de cada hospital e concessão do papel superadmin
func main() {
	log.Println("Starting Zelo Admin API (Control Plane)...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.AdminAPI.GinMode)

	ctx := context.Background()

	dbManager := database.GetManager(cfg)
	if err := dbManager.InitPool(ctx); err != nil {
		log.Fatalf("Failed to initialize DB pool: %v", err)
	}

	if err := database.Migrate(ctx, dbManager.GetPool()); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}

	storageDriver, err := storage.NewDriver(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage driver: %v", err)
	}

	// Repositories
	pool := dbManager.GetPool()
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	hospitalRepo := repository.NewHospitalRepository(pool)

	// Services
	provisioning := services.NewProvisioningService(userRepo, profileRepo, hospitalRepo, redisClient)
	uploads := services.NewUploadService(storageDriver)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, provisioning, cfg)
	hospitalHandler := adminHandlers.NewHospitalHandler(hospitalRepo, provisioning, uploads)
	provisioningHandler := adminHandlers.NewProvisioningHandler(provisioning)

	resolver := middleware.NewSessionResolver(userRepo, profileRepo)
	router := setupAdminRouter(cfg, resolver, authHandler, hospitalHandler, provisioningHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.AdminAPI.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Zelo Admin API listening on port %s", cfg.AdminAPI.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Zelo Admin API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Zelo Admin API forced to shutdown: %v", err)
	}

	dbManager.Close()
	redisClient.Close()

	log.Println("Zelo Admin API exited")
}

func setupAdminRouter(
	cfg *config.Config,
	resolver *middleware.SessionResolver,
	authHandler *handlers.AuthHandler,
	hospitalHandler *adminHandlers.HospitalHandler,
	provisioningHandler *adminHandlers.ProvisioningHandler,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "admin-api"})
	})

	// Public routes (superadmin login)
	public := router.Group("/api/v1/admin")
	{
		public.POST("/login", authHandler.Login)
	}

	// Protected routes, superadmin only
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.AuthMiddleware(cfg, resolver))
	protected.Use(middleware.RequireRoles(models.RoleSuperadmin))
	{
		protected.GET("/me", authHandler.Me)

		// Hospital management
		protected.GET("/hospitals", hospitalHandler.List)
		protected.POST("/hospitals", hospitalHandler.Create)
		protected.GET("/hospitals/:id", hospitalHandler.Get)
		protected.PUT("/hospitals/:id", hospitalHandler.Update)
		protected.DELETE("/hospitals/:id", hospitalHandler.Delete)
		protected.POST("/hospitals/:id/logo", hospitalHandler.UploadLogo)

		// Account provisioning
		protected.POST("/create-hospital-admin", provisioningHandler.CreateHospitalAdmin)
		protected.POST("/superadmins", provisioningHandler.AddSuperadmin)
	}

	return router
}
