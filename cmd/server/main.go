package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/controller"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/app/service"
	"github.com/ctoapp/cto-backend/internal/db"
	"github.com/ctoapp/cto-backend/internal/mailer"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/ctoapp/cto-backend/internal/router"
	"github.com/ctoapp/cto-backend/internal/storage"
	"github.com/ctoapp/cto-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console",
		EnableColor: true,
	})

	logger.Info("Starting CTO App Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(cfg.Auth.AdminSeedFile); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	store, err := storage.New(cfg.Storage, cfg.Server.PublicURL)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}
	mail := mailer.New(cfg.SMTP)

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	roleRepo := repository.NewRoleRepository(db.GetDB())
	confirmationRepo := repository.NewUserConfirmationRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	manufacturerRepo := repository.NewManufacturerRepository(db.GetDB())
	toolRepo := repository.NewToolRepository(db.GetDB())
	techniqueRepo := repository.NewTechniqueRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		roleRepo,
		confirmationRepo,
		resetRepo,
		mail,
		cfg.JWT,
		cfg.Auth,
		cfg.Server.PublicURL,
	)
	manufacturerService := service.NewManufacturerService(manufacturerRepo, toolRepo, store)
	toolService := service.NewToolService(toolRepo, store)
	techniqueService := service.NewTechniqueService(techniqueRepo, store)
	productService := service.NewProductService(productRepo, manufacturerRepo, toolRepo, store)

	// Controllers
	authController := controller.NewAuthController(authService)
	manufacturerController := controller.NewManufacturerController(manufacturerService)
	toolController := controller.NewToolController(toolService)
	techniqueController := controller.NewTechniqueController(techniqueService)
	productController := controller.NewProductController(productService)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		manufacturerController,
		toolController,
		techniqueController,
		productController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
