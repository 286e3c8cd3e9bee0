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
	"github.com/Alexandre11021998/Zelo/internal/middleware"
	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/Alexandre11021998/Zelo/internal/repository"
	"github.com/Alexandre11021998/Zelo/internal/services"
	"github.com/Alexandre11021998/Zelo/internal/storage"
	"github.com/Alexandre11021998/Zelo/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// API hospitalar - plano de dados
// Responsável por: login e auto-cadastro da equipe, pacientes e status,
// gestão de equipe, consulta pública do acompanhante e pré-check-in
func main() {
	log.Println("Starting Zelo API...")

	// .env é opcional; em produção as variáveis vêm do ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.API.GinMode)

	registerCPFValidator()

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
	patientRepo := repository.NewPatientRepository(pool)
	preCheckinRepo := repository.NewPreCheckinRepository(pool)

	// Services
	provisioning := services.NewProvisioningService(userRepo, profileRepo, hospitalRepo, redisClient)
	uploads := services.NewUploadService(storageDriver)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, provisioning, cfg)
	patientHandler := handlers.NewPatientHandler(patientRepo, redisClient, cfg)
	companionHandler := handlers.NewCompanionHandler(patientRepo, redisClient)
	teamHandler := handlers.NewTeamHandler(profileRepo, provisioning)
	preCheckinHandler := handlers.NewPreCheckinHandler(preCheckinRepo, uploads)

	resolver := middleware.NewSessionResolver(userRepo, profileRepo)
	router := setupRouter(cfg, resolver, authHandler, patientHandler, companionHandler, teamHandler, preCheckinHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.API.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Zelo API listening on port %s", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Zelo API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Zelo API forced to shutdown: %v", err)
	}

	dbManager.Close()
	redisClient.Close()

	log.Println("Zelo API exited")
}

func setupRouter(
	cfg *config.Config,
	resolver *middleware.SessionResolver,
	authHandler *handlers.AuthHandler,
	patientHandler *handlers.PatientHandler,
	companionHandler *handlers.CompanionHandler,
	teamHandler *handlers.TeamHandler,
	preCheckinHandler *handlers.PreCheckinHandler,
) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "api"})
	})

	// Uploads locais são servidos pela própria API
	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		router.Static("/uploads", cfg.Storage.UploadsPath)
	}

	api := router.Group("/api/v1")

	// Public routes
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/signup", authHandler.Signup)

		api.GET("/companion/patient", companionHandler.Lookup)
		api.GET("/companion/patient/:id/stream", companionHandler.Stream)

		api.POST("/checkin", preCheckinHandler.Create)
	}

	// Authenticated routes
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg, resolver))
	{
		auth.GET("/auth/me", authHandler.Me)
	}

	// Staff routes (colaborador ou admin do hospital)
	staff := api.Group("")
	staff.Use(middleware.AuthMiddleware(cfg, resolver))
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleColaborador, models.RoleSuperadmin))
	{
		staff.GET("/patients", patientHandler.List)
		staff.POST("/patients", patientHandler.Create)
		staff.PUT("/patients/:id", patientHandler.Update)
		staff.PUT("/patients/:id/status", patientHandler.UpdateStatus)
		staff.PUT("/patients/:id/discharge", patientHandler.Discharge)
		staff.DELETE("/patients/:id", patientHandler.Delete)
		staff.POST("/patients/import", patientHandler.Import)
		staff.GET("/patients/:id/qrcode", patientHandler.QRCode)
		staff.GET("/patients/stream", patientHandler.Stream)

		staff.GET("/checkin", preCheckinHandler.List)
		staff.PUT("/checkin/:id/status", preCheckinHandler.UpdateStatus)
	}

	// Manager routes (admin do hospital ou superadmin)
	managers := api.Group("/team")
	managers.Use(middleware.AuthMiddleware(cfg, resolver))
	managers.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSuperadmin))
	{
		managers.GET("", teamHandler.List)
		managers.POST("/create-staff", teamHandler.CreateStaff)
		managers.POST("/remove-staff", teamHandler.RemoveStaff)
	}

	return router
}

// registerCPFValidator habilita a tag de binding "cpf" nas structs de request
func registerCPFValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return utils.ValidateCPF(fl.Field().String())
		})
	}
}
